// Package gotesting loads Go test files: TestXxx(t *testing.T) functions and
// their t.Run subtests.
package gotesting

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
	"github.com/specvital/suite-harness/pkg/parser/tspool"
)

const (
	frameworkName = "go-testing"

	// AST node types
	nodeCallExpression       = "call_expression"
	nodeFuncLiteral          = "func_literal"
	nodeParameterDeclaration = "parameter_declaration"
	nodePointerType          = "pointer_type"
	nodeQualifiedType        = "qualified_type"
	nodeSelectorExpression   = "selector_expression"

	// String literal types
	nodeInterpretedStringLiteral = "interpreted_string_literal"
	nodeRawStringLiteral         = "raw_string_literal"

	// Go test identifiers
	methodRun        = "Run"
	typeTestingParam = "testing.T"

	// dynamicName stands in for subtest names computed at runtime,
	// e.g. t.Run(tc.name, ...).
	dynamicName = "(dynamic)"
)

const testFuncQuery = `(function_declaration name: (identifier) @name) @func`

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
	return []domain.Language{domain.LanguageGo}
}

func (s *Strategy) CanHandle(filename string, _ []byte) bool {
	return isGoTestFile(filename)
}

func (s *Strategy) Parse(ctx context.Context, source []byte, filename string) (*domain.TestFile, error) {
	tree, err := tspool.Parse(ctx, domain.LanguageGo, source)
	if err != nil {
		return nil, fmt.Errorf("go-testing parser: failed to parse %s: %w", filename, err)
	}
	defer tree.Close()
	root := tree.RootNode()

	if err := parser.CheckSyntax(root, source, filename); err != nil {
		return nil, err
	}

	suites, tests, err := parseTestFunctions(root, source, filename)
	if err != nil {
		return nil, fmt.Errorf("go-testing parser: %s: %w", filename, err)
	}

	return &domain.TestFile{
		Path:      filename,
		Language:  domain.LanguageGo,
		Framework: frameworkName,
		Suites:    suites,
		Tests:     tests,
	}, nil
}

// FullTitle follows `go test -run` naming: parent/sub with spaces in
// subtest names rewritten to underscores.
func (s *Strategy) FullTitle(parent, title string) string {
	if parent == "" {
		return title
	}
	return parent + "/" + rewriteSubtestName(title)
}

// Helper functions (alphabetically ordered)

// collectSubtests finds the t.Run calls directly inside body. A subtest that
// itself calls t.Run becomes a suite; the rest are tests.
func collectSubtests(body *sitter.Node, source []byte, filename string) ([]domain.TestSuite, []domain.Test) {
	var suites []domain.TestSuite
	var tests []domain.Test

	parser.WalkTree(body, func(node *sitter.Node) bool {
		if !isRunCall(node, source) {
			return true
		}

		args := node.ChildByFieldName("arguments")
		name := extractSubtestName(args, source)
		loc := parser.GetLocation(node, filename)

		var childSuites []domain.TestSuite
		var childTests []domain.Test
		if fn := parser.FindChildByType(args, nodeFuncLiteral); fn != nil {
			if fnBody := fn.ChildByFieldName("body"); fnBody != nil {
				childSuites, childTests = collectSubtests(fnBody, source, filename)
			}
		}

		if len(childSuites) > 0 || len(childTests) > 0 {
			suites = append(suites, domain.TestSuite{
				Name:     name,
				Status:   domain.TestStatusActive,
				Location: loc,
				Suites:   childSuites,
				Tests:    childTests,
			})
		} else {
			tests = append(tests, domain.Test{
				Name:     name,
				Status:   domain.TestStatusActive,
				Location: loc,
			})
		}

		// Nested t.Run calls belong to the subtest just recorded.
		return false
	})

	return suites, tests
}

func extractSubtestName(args *sitter.Node, source []byte) string {
	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(i)
		switch child.Type() {
		case nodeInterpretedStringLiteral, nodeRawStringLiteral:
			return trimQuotes(parser.GetNodeText(child, source))
		case "(", ",":
			continue
		default:
			return dynamicName
		}
	}
	return dynamicName
}

func isGoTestFile(filename string) bool {
	return strings.HasSuffix(filepath.Base(filename), "_test.go")
}

func isRunCall(node *sitter.Node, source []byte) bool {
	if node.Type() != nodeCallExpression {
		return false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Type() != nodeSelectorExpression {
		return false
	}
	field := fn.ChildByFieldName("field")
	return field != nil && parser.GetNodeText(field, source) == methodRun &&
		node.ChildByFieldName("arguments") != nil
}

func isTestFunction(name string) bool {
	if name == "TestMain" {
		return false
	}
	if name == "Test" {
		return true
	}
	if !strings.HasPrefix(name, "Test") {
		return false
	}
	// Same rule as `go test`: the rune after "Test" must not be lower case.
	r := []rune(name[4:])[0]
	return !unicode.IsLower(r)
}

func parseTestFunctions(root *sitter.Node, source []byte, filename string) ([]domain.TestSuite, []domain.Test, error) {
	matches, err := tspool.Matches(root, domain.LanguageGo, testFuncQuery)
	if err != nil {
		return nil, nil, err
	}

	var suites []domain.TestSuite
	var tests []domain.Test

	for _, m := range matches {
		fn, nameNode := m.Captures["func"], m.Captures["name"]
		if fn == nil || nameNode == nil {
			continue
		}

		name := parser.GetNodeText(nameNode, source)
		if !isTestFunction(name) || !validateTestParams(fn, source) {
			continue
		}

		var subSuites []domain.TestSuite
		var subTests []domain.Test
		if body := fn.ChildByFieldName("body"); body != nil {
			subSuites, subTests = collectSubtests(body, source, filename)
		}

		loc := parser.GetLocation(fn, filename)
		if len(subSuites) > 0 || len(subTests) > 0 {
			suites = append(suites, domain.TestSuite{
				Name:     name,
				Status:   domain.TestStatusActive,
				Location: loc,
				Suites:   subSuites,
				Tests:    subTests,
			})
			continue
		}
		tests = append(tests, domain.Test{
			Name:     name,
			Status:   domain.TestStatusActive,
			Location: loc,
		})
	}

	return suites, tests, nil
}

// rewriteSubtestName mirrors testing.rewrite: spaces become underscores and
// non-printable runes are quoted.
func rewriteSubtestName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case !strconv.IsPrint(r):
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimQuotes(s string) string {
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	// Fallback for invalid literals, e.g. from incomplete code.
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func validateTestParams(funcDecl *sitter.Node, source []byte) bool {
	params := funcDecl.ChildByFieldName("parameters")
	if params == nil {
		return false
	}

	var paramDecl *sitter.Node
	paramCount := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child.Type() == nodeParameterDeclaration {
			if paramCount == 0 {
				paramDecl = child
			}
			paramCount++
		}
	}

	if paramCount != 1 {
		return false
	}

	typeNode := paramDecl.ChildByFieldName("type")
	if typeNode == nil || typeNode.Type() != nodePointerType {
		return false
	}

	elem := parser.FindChildByType(typeNode, nodeQualifiedType)
	return elem != nil && parser.GetNodeText(elem, source) == typeTestingParam
}
