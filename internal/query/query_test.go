package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/jtok/internal/jsontok"
)

const doc = `{"user":"johndoe","admin":false,"uid":1000,"groups":["users","wheel","audio"],"home":{"dir":"/home/johndoe"}}`

func tokens(t *testing.T, js string) []jsontok.Token {
	t.Helper()

	p := jsontok.NewParser(make([]jsontok.Token, 32))
	if _, err := p.Parse([]byte(js)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p.Tokens()
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "member", expr: "$.user", want: []string{`"johndoe"`}},
		{name: "nested member", expr: "$.home.dir", want: []string{`"/home/johndoe"`}},
		{name: "index", expr: "$.groups[1]", want: []string{`"wheel"`}},
		{name: "wildcard", expr: "$.groups[*]", want: []string{`"users"`, `"wheel"`, `"audio"`}},
		{name: "container", expr: "$.home", want: []string{`{"dir":"/home/johndoe"}`}},
		{name: "number", expr: "$.uid", want: []string{`1000`}},
		{name: "no match", expr: "$.missing", want: []string{}},
	}

	toks := tokens(t, doc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nodes, err := Select(toks, tt.expr)
			if err != nil {
				t.Fatalf("Select(%q) error = %v", tt.expr, err)
			}

			got := make([]string, 0, len(nodes))
			for _, node := range nodes {
				got = append(got, string(node))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	t.Parallel()

	toks := tokens(t, doc)

	if _, err := Select(toks, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty expression error = %v, want %v", err, ErrInvalidInput)
	}
	if _, err := Select(toks, "$[?"); !errors.Is(err, ErrQuery) {
		t.Errorf("bad expression error = %v, want %v", err, ErrQuery)
	}
	if _, err := Select(nil, "$"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no tokens error = %v, want %v", err, ErrInvalidInput)
	}
}
