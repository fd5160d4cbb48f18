// Package tspool provides tree-sitter parsers for concurrent parsing.
//
// Languages are initialised once, either lazily on first use or eagerly via
// [Warm]. Each Parse call uses a fresh parser: reusing a parser after a
// cancelled ParseCtx leaves its cancellation flag set and every later parse
// fails with "operation limit was hit".
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/specvital/suite-harness/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	goLang  *sitter.Language
	jsLang  *sitter.Language
	tsLang  *sitter.Language
	tsxLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		goLang = golang.GetLanguage()
		jsLang = javascript.GetLanguage()
		tsLang = typescript.GetLanguage()
		tsxLang = tsx.GetLanguage()
	})
}

// Warm initialises every grammar up front so the first Parse does not pay
// for it. Safe to call more than once.
func Warm() {
	initLanguages()
}

// Languages returns the languages this package can parse.
func Languages() []domain.Language {
	return []domain.Language{
		domain.LanguageGo,
		domain.LanguageJavaScript,
		domain.LanguageTSX,
		domain.LanguageTypeScript,
	}
}

// GetLanguage returns the tree-sitter language for the given domain language.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguageGo:
		return goLang
	case domain.LanguageJavaScript:
		return jsLang
	case domain.LanguageTSX:
		return tsxLang
	default:
		return tsLang
	}
}

// Get returns a parser for the given language.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(GetLanguage(lang))
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser := Get(lang)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
