package jsontok

// Arena is an append-only pool of tokens backed by caller storage.
// Token indices never change once assigned; the arena is emptied only by Init.
type Arena struct {
	tokens []Token
	next   int
	open   int
}

// Init attaches storage and empties the arena. Its capacity is len(storage).
// A nil storage puts the owning Parser in sizing mode.
func (a *Arena) Init(storage []Token) {
	a.tokens = storage
	a.next = 0
	a.open = Unset
}

// Allocate reserves n contiguous tokens, resets them, and returns the index
// of the first. On ErrOutOfTokens the arena is left unchanged.
//
// n must be at least 1; a smaller n is a caller bug and panics.
func (a *Arena) Allocate(n int) (int, error) {
	if n < 1 {
		panic("jsontok: Allocate called with n < 1")
	}
	if n > len(a.tokens)-a.next {
		return Unset, ErrOutOfTokens
	}

	first := a.next
	for i := first; i < first+n; i++ {
		a.tokens[i].reset()
	}
	a.next += n

	return first, nil
}

// Len returns the number of allocated tokens.
func (a *Arena) Len() int {
	return a.next
}

// Cap returns the capacity of the backing storage.
func (a *Arena) Cap() int {
	return len(a.tokens)
}

// Tokens returns the allocated tokens. The slice aliases the arena storage.
func (a *Arena) Tokens() []Token {
	return a.tokens[:a.next]
}

// Token returns the token at index i. i must be below Len.
func (a *Arena) Token(i int) *Token {
	return &a.tokens[i]
}

// Open returns the index of the token currently accepting children, or
// Unset at the root.
func (a *Arena) Open() int {
	return a.open
}

// Sizing reports whether the arena has no storage attached.
func (a *Arena) Sizing() bool {
	return a.tokens == nil
}

// grow counts one more child for the open token.
func (a *Arena) grow() {
	if a.open != Unset {
		a.tokens[a.open].Size++
	}
}

func (a *Arena) openType() Type {
	if a.open == Unset {
		return Undefined
	}
	return a.tokens[a.open].Type
}
