// Package suitejson is the wire encoding of a discovered suite tree.
package suitejson

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
	schema "github.com/xeipuuv/gojsonschema"

	"github.com/specvital/suite-harness/pkg/domain"
)

// Indent is the indentation used for encoded trees.
const Indent = "    "

// SchemaJSON is the JSON Schema every encoded tree satisfies.
//
//go:embed schema.json
var SchemaJSON string

var schemaLoader = schema.NewStringLoader(SchemaJSON)

// Encode returns root as pretty-printed JSON with keys in the order title,
// fullTitle, file, suites, tests. Missing slices encode as empty arrays.
// The result carries no trailing newline so it can be written in one piece.
func Encode(root *domain.SuiteNode) ([]byte, error) {
	if root == nil {
		return nil, errors.New("suitejson: nil root suite")
	}
	normalize(root)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrap(err, "suitejson: encode")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// normalize replaces nil slices with empty ones throughout the tree.
func normalize(n *domain.SuiteNode) {
	n.Walk(func(node *domain.SuiteNode, _ int) bool {
		if node.Suites == nil {
			node.Suites = []*domain.SuiteNode{}
		}
		if node.Tests == nil {
			node.Tests = []domain.TestLeaf{}
		}
		return true
	})
}

// Decode parses an encoded tree.
func Decode(data []byte) (*domain.SuiteNode, error) {
	var root domain.SuiteNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "suitejson: decode")
	}
	normalize(&root)
	return &root, nil
}

// Validate checks data against SchemaJSON and returns one error per
// violation.
func Validate(data []byte) []error {
	if len(bytes.TrimSpace(data)) == 0 {
		return []error{errors.New("suite tree is empty")}
	}

	result, err := schema.Validate(schemaLoader, schema.NewBytesLoader(data))
	if err != nil {
		return []error{errors.Wrap(err, "suitejson: validate")}
	}
	if result.Valid() {
		return nil
	}

	var errs []error
	for _, desc := range result.Errors() {
		errs = append(errs, errors.Errorf("invalid: %s", desc))
	}
	return errs
}
