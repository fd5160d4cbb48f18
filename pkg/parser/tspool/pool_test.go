package tspool_test

import (
	"context"
	"sync"
	"testing"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser/tspool"
)

func TestParse_RaceFree(t *testing.T) {
	t.Parallel()

	const goroutines = 50
	source := []byte("const x = 1;")

	var wg sync.WaitGroup
	wg.Add(goroutines)

	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := tspool.Parse(context.Background(), domain.LanguageTypeScript, source)
			if err != nil {
				errCh <- err
				return
			}
			defer tree.Close()
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("Parse failed: %v", err)
	}
}

func TestWarm_Idempotent(t *testing.T) {
	t.Parallel()

	tspool.Warm()
	tspool.Warm()

	for _, lang := range tspool.Languages() {
		if tspool.GetLanguage(lang) == nil {
			t.Errorf("GetLanguage(%v) returned nil after Warm", lang)
		}
	}
}

func TestParse_ValidOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lang   domain.Language
		source string
	}{
		{
			name:   "TypeScript const",
			lang:   domain.LanguageTypeScript,
			source: "const x: number = 1;",
		},
		{
			name:   "TSX element",
			lang:   domain.LanguageTSX,
			source: "const el = <div>hi</div>;",
		},
		{
			name:   "JavaScript function",
			lang:   domain.LanguageJavaScript,
			source: "function foo() { return 42; }",
		},
		{
			name:   "Go function",
			lang:   domain.LanguageGo,
			source: "package main\nfunc main() {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := tspool.Parse(context.Background(), tt.lang, []byte(tt.source))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			defer tree.Close()

			root := tree.RootNode()
			if root == nil {
				t.Fatal("Root node is nil")
			}
			if root.ChildCount() == 0 {
				t.Error("Expected children in parsed tree")
			}
			if root.HasError() {
				t.Errorf("unexpected syntax error in %q", tt.source)
			}
		})
	}
}
