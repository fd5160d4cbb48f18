package jstest

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser"
)

// UnquoteString strips JS string quotes, handling the escapes Go's
// strconv.Unquote does not know about.
func UnquoteString(text string) string {
	if len(text) < 2 {
		return text
	}

	first, last := text[0], text[len(text)-1]
	switch {
	case first == '`' && last == '`':
		return text[1 : len(text)-1]
	case first == '\'' && last == '\'':
		// Re-quote as a Go string: \' is not a Go escape and bare " is.
		inner := strings.ReplaceAll(text[1:len(text)-1], `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		if s, err := strconv.Unquote(`"` + inner + `"`); err == nil {
			return s
		}
		return text
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}
	return text
}

func isFunctionNode(n *sitter.Node) bool {
	switch n.Type() {
	case "arrow_function", "function_expression", "function":
		return true
	}
	return false
}

// FindCallback returns the first function argument.
func FindCallback(args *sitter.Node) *sitter.Node {
	for i := 0; i < int(args.ChildCount()); i++ {
		if child := args.Child(i); isFunctionNode(child) {
			return child
		}
	}
	return nil
}

// FindLastCallback returns the last function argument. Custom wrappers such
// as describeIf(cond, 'name', fn) put the body last.
func FindLastCallback(args *sitter.Node) *sitter.Node {
	var last *sitter.Node
	for i := 0; i < int(args.ChildCount()); i++ {
		if child := args.Child(i); isFunctionNode(child) {
			last = child
		}
	}
	return last
}

// ExtractTestName returns the title argument of a describe/it call, or ""
// when the call has no arguments. Any title that is not a plain string
// literal, including a template with substitutions, is computed at runtime
// and collapses to DynamicNamePlaceholder.
func ExtractTestName(args *sitter.Node, source []byte) string {
	title := firstArgument(args)
	if title == nil {
		return ""
	}
	switch title.Type() {
	case "string":
		return UnquoteString(parser.GetNodeText(title, source))
	case "template_string":
		if parser.FindChildByType(title, "template_substitution") == nil {
			return UnquoteString(parser.GetNodeText(title, source))
		}
	}
	return DynamicNamePlaceholder
}

// firstArgument skips punctuation and comments in an argument list.
func firstArgument(args *sitter.Node) *sitter.Node {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if child := args.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// countArguments returns the number of arguments, comments excluded.
func countArguments(args *sitter.Node) int {
	n := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if args.NamedChild(i).Type() != "comment" {
			n++
		}
	}
	return n
}

// ParseFunctionName resolves the callee of a call expression to a base
// function name plus the status and modifier implied by aliases and member
// modifiers (describe.skip, it.only, xit, test.concurrent.each, ...).
// Name is "" when the callee is not recognisable.
func ParseFunctionName(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	switch node.Type() {
	case "identifier":
		return parseIdentifier(node, source)
	case "member_expression":
		return parseMember(node, source)
	case "parenthesized_expression":
		return parseParenthesized(node, source)
	default:
		return "", domain.TestStatusActive, ""
	}
}

func parseIdentifier(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	name := parser.GetNodeText(node, source)

	if base, ok := SkippedFunctionAliases[name]; ok {
		return base, domain.TestStatusSkipped, name
	}
	if base, ok := FocusedFunctionAliases[name]; ok {
		return base, domain.TestStatusFocused, name
	}
	return name, domain.TestStatusActive, ""
}

func parseMember(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	obj := node.ChildByFieldName("object")
	prop := node.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return "", domain.TestStatusActive, ""
	}
	propName := parser.GetNodeText(prop, source)

	if obj.Type() != "member_expression" {
		objName := parser.GetNodeText(obj, source)
		switch propName {
		case ModifierConcurrent:
			return objName, domain.TestStatusActive, ""
		case ModifierEach:
			return objName + "." + ModifierEach, domain.TestStatusActive, ""
		case ModifierOnly, ModifierSkip, ModifierTodo:
			return objName, ParseModifierStatus(propName), propName
		}
		return "", domain.TestStatusActive, ""
	}

	// Two-level chains: describe.skip.each, test.concurrent.only, ...
	innerObj := obj.ChildByFieldName("object")
	innerProp := obj.ChildByFieldName("property")
	if innerObj == nil || innerProp == nil {
		return "", domain.TestStatusActive, ""
	}
	objName := parser.GetNodeText(innerObj, source)
	middle := parser.GetNodeText(innerProp, source)

	modifier := middle
	if middle == ModifierConcurrent {
		modifier = propName
	}
	status := ParseModifierStatus(modifier)
	if status == domain.TestStatusActive {
		modifier = ""
	}

	switch {
	case propName == ModifierEach:
		return objName + "." + ModifierEach, status, modifier
	case middle == ModifierConcurrent:
		return objName, status, modifier
	}
	return "", status, modifier
}

func parseParenthesized(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "ternary_expression":
			// (cond ? describe : describe.skip): either branch names the function.
			for _, field := range []string{"consequence", "alternative"} {
				if branch := child.ChildByFieldName(field); branch != nil {
					if name, _, _ := ParseFunctionName(branch, source); name != "" {
						return name, domain.TestStatusActive, ""
					}
				}
			}
			return "", domain.TestStatusActive, ""
		case "identifier", "member_expression", "parenthesized_expression":
			return ParseFunctionName(child, source)
		}
	}
	return "", domain.TestStatusActive, ""
}
