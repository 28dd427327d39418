package jsontok

import "errors"

var (
	// ErrOutOfTokens indicates the arena has no room for the tokens being allocated.
	ErrOutOfTokens = errors.New("jsontok: not enough tokens")

	// ErrInvalid indicates malformed JSON or a token tree that cannot be serialized.
	ErrInvalid = errors.New("jsontok: invalid json")

	// ErrIncomplete indicates the input ended inside a token or container.
	// More bytes may complete it; parse again from position 0.
	ErrIncomplete = errors.New("jsontok: incomplete json")

	// ErrFactoryMisuse indicates Builder calls in an invalid order.
	ErrFactoryMisuse = errors.New("jsontok: builder misuse")
)
