package jstest

import (
	"context"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser"
	"github.com/specvital/suite-harness/pkg/parser/tspool"
)

// DetectLanguage determines the grammar to use from the file extension.
// Unknown extensions are parsed as TypeScript, a superset of JavaScript.
func DetectLanguage(filename string) domain.Language {
	if lang, ok := SupportedExtensions[filepath.Ext(filename)]; ok {
		return lang
	}
	return domain.LanguageTypeScript
}

// walker collects the suites and tests declared in one file.
type walker struct {
	source   []byte
	filename string
	file     *domain.TestFile
	// err is the first declaration that fails loading.
	err error
}

// MissingCallbackError reports a suite declared without a body. Mocha
// refuses to load such a file unless the suite is skipped.
type MissingCallbackError struct {
	Suite    string
	Location domain.Location
}

func (e *MissingCallbackError) Error() string {
	return fmt.Sprintf("%s: Suite %q was defined but no callback was supplied", e.Location, e.Suite)
}

func (w *walker) location(n *sitter.Node) domain.Location {
	return parser.GetLocation(n, w.filename)
}

func (w *walker) addTest(test domain.Test, parent *domain.TestSuite) {
	if parent != nil {
		parent.Tests = append(parent.Tests, test)
		return
	}
	w.file.Tests = append(w.file.Tests, test)
}

func (w *walker) addSuite(suite domain.TestSuite, parent *domain.TestSuite) {
	if parent != nil {
		parent.Suites = append(parent.Suites, suite)
		return
	}
	w.file.Suites = append(w.file.Suites, suite)
}

// body walks the body of a callback function inside parent.
func (w *walker) body(callback *sitter.Node, parent *domain.TestSuite, dynamic bool) {
	if callback == nil {
		return
	}
	if body := callback.ChildByFieldName("body"); body != nil {
		w.walk(body, parent, dynamic)
	}
}

// walk visits the statements under node. dynamic is set inside loops and
// array iterators, where one declaration produces a runtime-dependent
// number of suites or tests.
func (w *walker) walk(node *sitter.Node, parent *domain.TestSuite, dynamic bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "expression_statement":
			if call := parser.FindChildByType(child, "call_expression"); call != nil {
				w.call(call, parent, dynamic)
			}
		case "variable_declaration", "lexical_declaration":
			w.declaration(child, parent, dynamic)
		case "for_statement", "for_in_statement", "while_statement", "do_statement":
			if body := child.ChildByFieldName("body"); body != nil {
				w.walk(body, parent, true)
			}
		default:
			w.walk(child, parent, dynamic)
		}
	}
}

// declaration handles `const x = describe(...)` and friends.
func (w *walker) declaration(node *sitter.Node, parent *domain.TestSuite, dynamic bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		declarator := node.Child(i)
		if declarator == nil || declarator.Type() != "variable_declarator" {
			continue
		}

		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}

		if call := innermostCall(value); call != nil {
			w.call(call, parent, dynamic)
		} else {
			w.walk(value, parent, dynamic)
		}
	}
}

// innermostCall unwraps chained member calls such as
// describe('x', fn).timeout(100) down to the declaring call.
func innermostCall(node *sitter.Node) *sitter.Node {
	if node == nil || node.Type() != "call_expression" {
		return nil
	}

	fn := node.ChildByFieldName("function")
	if fn != nil && fn.Type() == "member_expression" {
		if inner := innermostCall(fn.ChildByFieldName("object")); inner != nil {
			return inner
		}
	}
	return node
}

func (w *walker) call(node *sitter.Node, parent *domain.TestSuite, dynamic bool) {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	if fn == nil || args == nil {
		return
	}

	// describe.each([...])('name %s', fn)
	if fn.Type() == "call_expression" {
		if !dynamic {
			w.each(node, fn, args, parent)
		}
		return
	}

	if callback := w.iteratorCallback(fn, args); callback != nil {
		w.body(callback, parent, true)
		return
	}

	name, status, modifier := ParseFunctionName(fn, w.source)
	switch {
	case name == "":
		return
	case isSuiteFunc(name):
		w.suite(node, args, parent, status, modifier, dynamic)
	case isTestFunc(name):
		w.test(node, args, parent, status, modifier, dynamic)
	default:
		// Unknown wrappers (describeIf, withFixtures, ...) may still declare
		// suites in their last callback.
		w.body(FindLastCallback(args), parent, dynamic)
	}
}

// iteratorCallback returns the callback of xs.forEach(fn) / xs.map(fn).
func (w *walker) iteratorCallback(fn, args *sitter.Node) *sitter.Node {
	if fn.Type() != "member_expression" {
		return nil
	}
	prop := fn.ChildByFieldName("property")
	if prop == nil {
		return nil
	}
	switch parser.GetNodeText(prop, w.source) {
	case "forEach", "map":
		return FindCallback(args)
	}
	return nil
}

func (w *walker) each(outer, inner, outerArgs *sitter.Node, parent *domain.TestSuite) {
	innerFn := inner.ChildByFieldName("function")
	if innerFn == nil {
		return
	}

	name, status, modifier := ParseFunctionName(innerFn, w.source)
	title := ExtractTestName(outerArgs, w.source)
	if title == "" {
		return
	}
	title += DynamicCasesSuffix

	switch name {
	case FuncDescribe + "." + ModifierEach, FuncContext + "." + ModifierEach, FuncSuite + "." + ModifierEach:
		callback := FindCallback(outerArgs)
		if callback == nil {
			return
		}
		suite := domain.TestSuite{
			Name:     title,
			Status:   status,
			Modifier: modifier,
			Location: w.location(outer),
		}
		w.body(callback, &suite, false)
		w.addSuite(suite, parent)
	case FuncIt + "." + ModifierEach, FuncTest + "." + ModifierEach, FuncSpecify + "." + ModifierEach:
		w.addTest(domain.Test{
			Name:     title,
			Status:   status,
			Modifier: modifier,
			Location: w.location(outer),
		}, parent)
	}
}

func (w *walker) suite(node, args *sitter.Node, parent *domain.TestSuite, status domain.TestStatus, modifier string, dynamic bool) {
	name := ExtractTestName(args, w.source)
	if name == "" {
		return
	}
	if dynamic {
		name += DynamicCasesSuffix
	}

	suite := domain.TestSuite{
		Name:     name,
		Status:   status,
		Modifier: modifier,
		Location: w.location(node),
	}
	if countArguments(args) < 2 && !pending(status, parent) && w.err == nil {
		w.err = &MissingCallbackError{Suite: name, Location: suite.Location}
	}
	w.body(FindCallback(args), &suite, dynamic)
	w.addSuite(suite, parent)
}

func pending(status domain.TestStatus, parent *domain.TestSuite) bool {
	return status == domain.TestStatusSkipped ||
		(parent != nil && parent.Status == domain.TestStatusSkipped)
}

func (w *walker) test(node, args *sitter.Node, parent *domain.TestSuite, status domain.TestStatus, modifier string, dynamic bool) {
	name := ExtractTestName(args, w.source)
	if name == "" {
		return
	}
	if dynamic {
		name += DynamicCasesSuffix
	}

	// it('title') without a body is pending.
	if FindCallback(args) == nil && status == domain.TestStatusActive {
		status = domain.TestStatusSkipped
	}

	w.addTest(domain.Test{
		Name:     name,
		Status:   status,
		Modifier: modifier,
		Location: w.location(node),
	}, parent)
}

// Parse loads a JavaScript/TypeScript test file. A file that does not parse
// cleanly yields a *parser.SyntaxError.
func Parse(ctx context.Context, source []byte, filename string, framework string) (*domain.TestFile, error) {
	lang := DetectLanguage(filename)

	tree, err := tspool.Parse(ctx, lang, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	defer tree.Close()
	root := tree.RootNode()

	if err := parser.CheckSyntax(root, source, filename); err != nil {
		return nil, err
	}

	testFile := &domain.TestFile{
		Path:      filename,
		Language:  lang,
		Framework: framework,
	}

	w := &walker{source: source, filename: filename, file: testFile}
	w.walk(root, nil, false)
	if w.err != nil {
		return nil, w.err
	}

	return testFile, nil
}
