package tspool

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/suite-harness/pkg/domain"
)

// Match is one query match. Node is the first capture of the match.
type Match struct {
	Node     *sitter.Node
	Captures map[string]*sitter.Node
}

type queryKey struct {
	lang  domain.Language
	query string
}

type compiledQuery struct {
	once  sync.Once
	query *sitter.Query
	err   error
}

var queries sync.Map // queryKey -> *compiledQuery

// compile returns the shared compiled query. The result must NOT be closed.
func compile(lang domain.Language, queryStr string) (*sitter.Query, error) {
	v, _ := queries.LoadOrStore(queryKey{lang: lang, query: queryStr}, &compiledQuery{})
	cq := v.(*compiledQuery)
	cq.once.Do(func() {
		cq.query, cq.err = sitter.NewQuery([]byte(queryStr), GetLanguage(lang))
	})
	return cq.query, cq.err
}

// Matches runs queryStr against root and returns every match in document
// order. Compiled queries are cached per language.
func Matches(root *sitter.Node, lang domain.Language, queryStr string) ([]Match, error) {
	query, err := compile(lang, queryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var matches []Match
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match := Match{Captures: make(map[string]*sitter.Node, len(m.Captures))}
		for _, c := range m.Captures {
			match.Captures[query.CaptureNameForId(c.Index)] = c.Node
			if match.Node == nil {
				match.Node = c.Node
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}
