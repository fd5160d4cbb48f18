package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/suite-harness/pkg/domain"
)

// maxSnippet bounds the offending source quoted in a SyntaxError.
const maxSnippet = 40

// SyntaxError reports a file that does not parse cleanly.
type SyntaxError struct {
	Location domain.Location
	// Missing is set when the parser inserted a token that was absent.
	Missing string
	// Snippet is the source text of the offending node, if any.
	Snippet string
}

func (e *SyntaxError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("SyntaxError: %s: missing %q", e.Location, e.Missing)
	}
	if e.Snippet != "" {
		return fmt.Sprintf("SyntaxError: %s: unexpected %q", e.Location, e.Snippet)
	}
	return fmt.Sprintf("SyntaxError: %s: unexpected token", e.Location)
}

// CheckSyntax returns a *SyntaxError describing the first parse error in
// root, or nil.
func CheckSyntax(root *sitter.Node, source []byte, filename string) error {
	bad := FirstSyntaxError(root)
	if bad == nil {
		return nil
	}

	err := &SyntaxError{Location: GetLocation(bad, filename)}
	if bad.IsMissing() {
		err.Missing = bad.Type()
		return err
	}

	snippet := strings.TrimSpace(GetNodeText(bad, source))
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	err.Snippet = truncateSnippet(snippet, maxSnippet)
	return err
}

// truncateSnippet shortens s to at most n runes, marking the cut.
func truncateSnippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
