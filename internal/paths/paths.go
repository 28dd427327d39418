// Package paths walks a token tree and names every leaf with its canonical
// JSONPath.
package paths

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/jacoelho/jtok/internal/jsontok"
	"github.com/jacoelho/jtok/internal/stack"
)

// DefaultMaxDepth is the default limit on open containers and labels
// above any token.
const DefaultMaxDepth = 256

var (
	// ErrTooDeep indicates the tree nests deeper than the walk allows.
	ErrTooDeep = errors.New("paths: nesting too deep")

	// ErrMalformed indicates parent links that do not form a tree.
	ErrMalformed = errors.New("paths: malformed token tree")
)

// Entry is a scalar, or an empty container, and where it sits.
type Entry struct {
	Path  string
	Index int
}

// frame is an open container or label on the way down to the current token.
type frame struct {
	index int
	typ   jsontok.Type
	next  int    // next element index for arrays
	step  string // path step leading to this token
}

// Walk yields an Entry for every scalar and every empty container in
// document order. maxDepth <= 0 means DefaultMaxDepth.
func Walk(tokens []jsontok.Token, maxDepth int) iter.Seq2[Entry, error] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return func(yield func(Entry, error) bool) {
		frames := stack.NewBounded[frame](maxDepth)

		for i := range tokens {
			t := &tokens[i]

			for {
				top, ok := frames.Peek()
				if !ok || top.index == t.Parent {
					break
				}
				frames.Pop()
			}
			if t.Parent != jsontok.Unset && frames.IsEmpty() {
				yield(Entry{}, fmt.Errorf("%w: token %d has no enclosing token", ErrMalformed, i))
				return
			}

			step := ""
			if top := frames.PeekRef(); top != nil && top.typ == jsontok.Array {
				step = "[" + strconv.Itoa(top.next) + "]"
				top.next++
			}

			switch t.Type {
			case jsontok.Label:
				if err := frames.Push(frame{index: i, typ: t.Type, step: member(t.Data)}); err != nil {
					yield(Entry{}, fmt.Errorf("%w: limit %d", ErrTooDeep, maxDepth))
					return
				}
				continue
			case jsontok.Object, jsontok.Array:
				if err := frames.Push(frame{index: i, typ: t.Type, step: step}); err != nil {
					yield(Entry{}, fmt.Errorf("%w: limit %d", ErrTooDeep, maxDepth))
					return
				}
				if t.Size > 0 {
					continue
				}
				if !yield(Entry{Path: build(frames, ""), Index: i}, nil) {
					return
				}
			default:
				if !yield(Entry{Path: build(frames, step), Index: i}, nil) {
					return
				}
			}
		}
	}
}

// build joins the steps of all frames plus a final step.
func build(frames *stack.Stack[frame], last string) string {
	var b strings.Builder
	b.WriteByte('$')
	for f := range frames.All() {
		b.WriteString(f.step)
	}
	b.WriteString(last)
	return b.String()
}

// member renders an object key as a path step. Keys are used as written,
// escapes included.
func member(name []byte) string {
	if isIdentifier(name) {
		return "." + string(name)
	}
	return "['" + strings.ReplaceAll(string(name), "'", `\'`) + "']"
}

func isIdentifier(name []byte) bool {
	if len(name) == 0 {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
