package caller

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/specvital/suite-harness/pkg/domain"
)

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	root := domain.NewRootSuite()
	root.Tests = []domain.TestLeaf{{Title: "top"}}
	root.Suites = []*domain.SuiteNode{
		{
			Title: "A",
			File:  "test/a.spec.js",
			Tests: []domain.TestLeaf{{Title: "t1"}},
			Suites: []*domain.SuiteNode{
				{Title: "B", File: "test/a.spec.js", Tests: []domain.TestLeaf{{Title: "t2"}}},
			},
		},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, root)

	assert.Equal(t, "- top\nA (test/a.spec.js)\n  - t1\n  B\n    - t2\n2 suites, 3 tests\n", buf.String())
}
