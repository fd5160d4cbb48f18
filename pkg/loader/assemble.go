package loader

import (
	"github.com/specvital/suite-harness/pkg/domain"
	"github.com/specvital/suite-harness/pkg/parser/strategies"
)

// assemble attaches every file's declarations to one implicit root suite in
// registration order. Each suite records the file it was declared in and
// full titles are composed by the strategy that loaded the file.
func assemble(files []loadedFile) *domain.SuiteNode {
	root := domain.NewRootSuite()
	for _, lf := range files {
		b := builder{strategy: lf.strategy, path: lf.file.Path}
		root.Tests = append(root.Tests, b.tests(root.FullTitle, lf.file.Tests)...)
		root.Suites = append(root.Suites, b.suites(root.FullTitle, lf.file.Suites)...)
	}
	return root
}

type builder struct {
	strategy strategies.Strategy
	path     string
}

func (b builder) suites(parentTitle string, suites []domain.TestSuite) []*domain.SuiteNode {
	nodes := make([]*domain.SuiteNode, 0, len(suites))
	for _, s := range suites {
		node := &domain.SuiteNode{
			Title:     s.Name,
			FullTitle: b.strategy.FullTitle(parentTitle, s.Name),
			File:      b.path,
		}
		node.Tests = b.tests(node.FullTitle, s.Tests)
		node.Suites = b.suites(node.FullTitle, s.Suites)
		nodes = append(nodes, node)
	}
	return nodes
}

func (b builder) tests(parentTitle string, tests []domain.Test) []domain.TestLeaf {
	leaves := make([]domain.TestLeaf, 0, len(tests))
	for _, t := range tests {
		leaves = append(leaves, domain.TestLeaf{
			Title:     t.Name,
			FullTitle: b.strategy.FullTitle(parentTitle, t.Name),
		})
	}
	return leaves
}
