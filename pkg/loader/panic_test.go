package loader_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/loader"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
)

// crashingStrategy panics while parsing files named crash.*.
type crashingStrategy struct{}

func (crashingStrategy) Name() string { return "crashing" }
func (crashingStrategy) Priority() int { return strategies.DefaultPriority }
func (crashingStrategy) Languages() []domain.Language { return []domain.Language{domain.LanguageJavaScript} }
func (crashingStrategy) CanHandle(string, []byte) bool { return true }
func (crashingStrategy) FullTitle(parent, title string) string { return title }

func (crashingStrategy) Parse(_ context.Context, _ []byte, filename string) (*domain.TestFile, error) {
	if strings.HasPrefix(filepath.Base(filename), "crash.") {
		var titles map[string]int
		titles[filename]++
	}
	return &domain.TestFile{Path: filename, Tests: []domain.Test{{Name: "ok"}}}, nil
}

func TestLoadAll_StrategyPanic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.js", "\n")
	crash := writeFile(t, dir, "crash.js", "\n")

	l := newLoader(t, loader.WithRegistry(strategies.NewRegistry(crashingStrategy{})))
	root, err := load(t, l, ok, crash)

	assert.Nil(t, root)
	var loadErr *loader.LoadError
	require.True(t, errors.As(err, &loadErr), "want *LoadError, got %v", err)
	assert.Equal(t, crash, loadErr.Path)
	assert.Contains(t, err.Error(), "panic loading file")
	assert.Contains(t, err.Error(), "nil map")
}
