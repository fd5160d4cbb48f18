// Package mocha loads JavaScript and TypeScript test files written against
// the mocha BDD and TDD interfaces (describe/context/suite, it/specify/test).
package mocha

import (
	"context"
	"path/filepath"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
	"github.com/specvital/suite-harness/pkg/parser/strategies/shared/jstest"
)

const frameworkName = "mocha"

func init() {
	strategies.Register(NewStrategy())
}

type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string {
	return frameworkName
}

func (s *Strategy) Priority() int {
	return strategies.DefaultPriority
}

func (s *Strategy) Languages() []domain.Language {
	return []domain.Language{domain.LanguageJavaScript, domain.LanguageTypeScript, domain.LanguageTSX}
}

func (s *Strategy) CanHandle(filename string, _ []byte) bool {
	_, ok := jstest.SupportedExtensions[filepath.Ext(filename)]
	return ok
}

func (s *Strategy) Parse(ctx context.Context, source []byte, filename string) (*domain.TestFile, error) {
	return jstest.Parse(ctx, source, filename, frameworkName)
}

// FullTitle joins the title path with single spaces; the root suite does not
// contribute to it.
func (s *Strategy) FullTitle(parent, title string) string {
	if parent == "" {
		return title
	}
	return parent + " " + title
}
