package jstest

import (
	"github.com/specvital/suite-harness/pkg/domain"
)

const (
	FuncDescribe = "describe"
	FuncIt       = "it"
	FuncTest     = "test"

	// Mocha TDD interface functions
	FuncContext = "context"
	FuncSpecify = "specify"
	FuncSuite   = "suite"

	ModifierConcurrent = "concurrent"
	ModifierEach       = "each"
	ModifierOnly       = "only"
	ModifierSkip       = "skip"
	ModifierTodo       = "todo"

	DynamicCasesSuffix     = " (dynamic cases)"
	DynamicNamePlaceholder = "(dynamic)"
)

var SkippedFunctionAliases = map[string]string{
	"xdescribe": FuncDescribe,
	"xit":       FuncIt,
	"xtest":     FuncTest,
	"xcontext":  FuncContext,
	"xspecify":  FuncSpecify,
}

var FocusedFunctionAliases = map[string]string{
	"fdescribe": FuncDescribe,
	"fit":       FuncIt,
	"fcontext":  FuncContext,
	"fspecify":  FuncSpecify,
}

// SupportedExtensions maps loadable file extensions to their grammar.
var SupportedExtensions = map[string]domain.Language{
	".cjs": domain.LanguageJavaScript,
	".cts": domain.LanguageTypeScript,
	".js":  domain.LanguageJavaScript,
	".jsx": domain.LanguageJavaScript,
	".mjs": domain.LanguageJavaScript,
	".mts": domain.LanguageTypeScript,
	".ts":  domain.LanguageTypeScript,
	".tsx": domain.LanguageTSX,
}

func isSuiteFunc(name string) bool {
	return name == FuncDescribe || name == FuncContext || name == FuncSuite
}

func isTestFunc(name string) bool {
	return name == FuncIt || name == FuncTest || name == FuncSpecify
}

func ParseModifierStatus(modifier string) domain.TestStatus {
	switch modifier {
	case ModifierSkip:
		return domain.TestStatusSkipped
	case ModifierTodo:
		return domain.TestStatusTodo
	case ModifierOnly:
		return domain.TestStatusFocused
	default:
		return domain.TestStatusActive
	}
}
