// Package stack provides a LIFO stack with an optional depth limit.
package stack

import (
	"errors"
	"iter"
)

// ErrOverflow is returned by Push on a bounded stack that is full.
var ErrOverflow = errors.New("stack: depth limit reached")

type Stack[T any] struct {
	items []T
	limit int
}

// NewBounded returns a stack that holds at most limit items. Its storage
// is allocated once, up front. A limit of zero or less means unbounded.
func NewBounded[T any](limit int) *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, max(limit, 0)),
		limit: limit,
	}
}

// Push adds item on top. It fails only when a bounded stack is full.
func (s *Stack[T]) Push(item T) error {
	if s.limit > 0 && len(s.items) >= s.limit {
		return ErrOverflow
	}
	s.items = append(s.items, item)
	return nil
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	s.items = s.items[:index]
	return item, true
}

func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	return s.items[len(s.items)-1], true
}

// PeekRef allows modifying the top element in place.
func (s *Stack[T]) PeekRef() *T {
	if len(s.items) == 0 {
		return nil
	}

	return &s.items[len(s.items)-1]
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// All yields items from bottom to top without copying them.
func (s *Stack[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}
