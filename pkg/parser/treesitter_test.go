package parser_test

import (
	"context"
	"errors"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser"
	"github.com/specvital/suite-harness/pkg/parser/tspool"
)

func TestCheckSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lang     domain.Language
		source   string
		wantErr  bool
		wantLine int
	}{
		{
			name:   "clean javascript",
			lang:   domain.LanguageJavaScript,
			source: "describe('a', () => {\n  it('b', () => {});\n});\n",
		},
		{
			name:   "clean go",
			lang:   domain.LanguageGo,
			source: "package x\n\nimport \"testing\"\n\nfunc TestA(t *testing.T) {}\n",
		},
		{
			name:     "unterminated describe",
			lang:     domain.LanguageJavaScript,
			source:   "describe('a', () => {\n  it('b', () => {});\n",
			wantErr:  true,
			wantLine: 0,
		},
		{
			name:     "garbage in typescript",
			lang:     domain.LanguageTypeScript,
			source:   "const ok = 1;\nconst = = ;\n",
			wantErr:  true,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := []byte(tt.source)
			tree, err := tspool.Parse(context.Background(), tt.lang, source)
			require.NoError(t, err)
			defer tree.Close()

			err = parser.CheckSyntax(tree.RootNode(), source, "file")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var syntaxErr *parser.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "want *SyntaxError, got %v", err)
			assert.Equal(t, "file", syntaxErr.Location.File)
			assert.Contains(t, err.Error(), "SyntaxError: file:")
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, syntaxErr.Location.StartLine)
			}
		})
	}
}

func TestWalkTree_StopsDescending(t *testing.T) {
	t.Parallel()

	source := []byte("function a() { function b() {} }")
	tree, err := tspool.Parse(context.Background(), domain.LanguageJavaScript, source)
	require.NoError(t, err)
	defer tree.Close()

	var names []string
	parser.WalkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Type() == "function_declaration" {
			names = append(names, parser.GetNodeText(n.ChildByFieldName("name"), source))
			return false
		}
		return true
	})

	assert.Equal(t, []string{"a"}, names)
}
