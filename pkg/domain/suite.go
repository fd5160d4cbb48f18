package domain

// SuiteNode is one node of the discovered suite tree. The root node is the
// implicit suite that every file's top-level declarations attach to; it has an
// empty title and no file.
//
// Field order is the JSON key order.
type SuiteNode struct {
	Title     string       `json:"title"`
	FullTitle string       `json:"fullTitle"`
	File      string       `json:"file,omitempty"`
	Suites    []*SuiteNode `json:"suites"`
	Tests     []TestLeaf   `json:"tests"`
}

// TestLeaf is a single discovered test.
type TestLeaf struct {
	Title     string `json:"title"`
	FullTitle string `json:"fullTitle"`
}

// NewRootSuite returns an empty root suite.
func NewRootSuite() *SuiteNode {
	return &SuiteNode{
		Suites: []*SuiteNode{},
		Tests:  []TestLeaf{},
	}
}

// IsRoot reports whether n is an implicit root suite.
func (n *SuiteNode) IsRoot() bool {
	return n.Title == "" && n.File == ""
}

// CountTests returns the number of tests in n and all nested suites.
func (n *SuiteNode) CountTests() int {
	count := len(n.Tests)
	for _, s := range n.Suites {
		count += s.CountTests()
	}
	return count
}

// Walk visits n and its descendants depth-first in declaration order.
// Returning false from fn skips the children of that node.
func (n *SuiteNode) Walk(fn func(node *SuiteNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *SuiteNode) walk(fn func(*SuiteNode, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, s := range n.Suites {
		s.walk(fn, depth+1)
	}
}
