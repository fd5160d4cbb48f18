package caller

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/specvital/suite-harness/pkg/domain"
)

var suiteColor = color.New(color.Bold)               //nolint:gochecknoglobals
var fileColor = color.New(color.Faint)               //nolint:gochecknoglobals
var testColor = color.New(color.FgGreen)             //nolint:gochecknoglobals
var totalColor = color.New(color.FgCyan, color.Bold) //nolint:gochecknoglobals

// PrintSummary writes root as an indented outline followed by totals.
func PrintSummary(w io.Writer, root *domain.SuiteNode) {
	suites := 0
	root.Walk(func(n *domain.SuiteNode, depth int) bool {
		indent := strings.Repeat("  ", max(depth-1, 0))
		if depth > 0 {
			suites++
			_, _ = suiteColor.Fprintf(w, "%s%s", indent, n.Title)
			if depth == 1 {
				_, _ = fileColor.Fprintf(w, " (%s)", n.File)
			}
			fmt.Fprintln(w)
			indent += "  "
		}
		for _, t := range n.Tests {
			_, _ = testColor.Fprintf(w, "%s- %s\n", indent, t.Title)
		}
		return true
	})
	_, _ = totalColor.Fprintf(w, "%d suites, %d tests\n", suites, root.CountTests())
}
