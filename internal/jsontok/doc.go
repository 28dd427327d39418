// Package jsontok tokenizes JSON into a caller-supplied, fixed-capacity token
// arena and serializes token trees back to JSON text.
//
// Nothing in this package allocates. Tokens are appended to the arena in
// document order and linked to their enclosing token through parent
// indices, so the tree is a single flat slice:
//
//	{"a":[1,2]}
//
//	0 Object    size=1 parent=-1
//	1 Label "a" size=1 parent=0
//	2 Array     size=2 parent=1
//	3 Primitive "1"    parent=2
//	4 Primitive "2"    parent=2
//
// Label, String and Primitive tokens carry Data, a sub-slice of the parsed
// input (or of the caller's bytes when built with a Builder). Strings are not
// unescaped and numbers are not converted.
//
// A Parser with no storage runs in sizing mode: it scans and validates the
// lexical syntax and returns the number of tokens a real parse would need.
//
//	var p jsontok.Parser
//	n, err := p.Parse(js)
//	...
//	p.Init(make([]jsontok.Token, n))
//	n, err = p.Parse(js)
//
// An Arena, Parser or Builder must not be used from more than one goroutine
// at a time.
package jsontok
