// Package query evaluates JSONPath expressions against token trees.
package query

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/jtok/internal/jsontok"
	"github.com/jacoelho/jtok/internal/value"
)

var (
	// ErrInvalidInput indicates an empty expression or token tree.
	ErrInvalidInput = errors.New("query: invalid input")

	// ErrQuery indicates an expression that does not compile.
	ErrQuery = errors.New("query: invalid expression")
)

// Compile parses a JSONPath expression.
func Compile(expr string) (*jsonpath.Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: JSONPath expression is empty", ErrInvalidInput)
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrQuery, expr, err)
	}
	return path, nil
}

// Select returns every node of the tree rooted at tokens[0] that matches
// expr, each serialized as compact JSON.
func Select(tokens []jsontok.Token, expr string) ([][]byte, error) {
	path, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return SelectPath(tokens, path)
}

// SelectPath is Select with a compiled path.
func SelectPath(tokens []jsontok.Token, path *jsonpath.Path) ([][]byte, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrInvalidInput)
	}

	data, _, err := value.FromTokens(tokens)
	if err != nil {
		return nil, err
	}

	nodes := path.Select(data)
	out := make([][]byte, 0, len(nodes))
	for _, node := range nodes {
		encoded, err := value.Encode(node)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}

	return out, nil
}
