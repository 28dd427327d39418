package jsontok

import "iter"

// Skip returns the number of tokens spanned by the subtree rooted at
// tokens[i], or Unset if the sizes run past the end of tokens.
//
// Every token is followed by Size child subtrees: object members are
// labels, and each label is followed by its value.
func Skip(tokens []Token, i int) int {
	j := i
	for pending := 1; pending > 0; j++ {
		if j >= len(tokens) {
			return Unset
		}
		pending += tokens[j].Size - 1
	}
	return j - i
}

// Children yields the index of each immediate child of tokens[i]. For an
// object these are its labels.
func Children(tokens []Token, i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		j := i + 1
		for range tokens[i].Size {
			if j >= len(tokens) || !yield(j) {
				return
			}
			n := Skip(tokens, j)
			if n == Unset {
				return
			}
			j += n
		}
	}
}

// Equal reports whether a label or string token holds exactly s.
func Equal(t *Token, s string) bool {
	if t.Type != Label && t.Type != String {
		return false
	}
	return string(t.Data) == s
}

// Member returns the index of the value stored under key in the object at
// tokens[obj], or Unset. Keys are compared as written, without unescaping.
func Member(tokens []Token, obj int, key string) int {
	if tokens[obj].Type != Object {
		return Unset
	}
	for label := range Children(tokens, obj) {
		if Equal(&tokens[label], key) && label+1 < len(tokens) {
			return label + 1
		}
	}
	return Unset
}

// Element returns the index of the n-th element of the array at
// tokens[arr], or Unset.
func Element(tokens []Token, arr, n int) int {
	if tokens[arr].Type != Array || n < 0 || n >= tokens[arr].Size {
		return Unset
	}
	k := 0
	for child := range Children(tokens, arr) {
		if k == n {
			return child
		}
		k++
	}
	return Unset
}
