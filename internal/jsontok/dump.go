package jsontok

import "io"

// Sink receives consecutive fragments of serialized JSON.
type Sink func(p []byte) error

// WriterSink adapts w to a Sink.
func WriterSink(w io.Writer) Sink {
	return func(p []byte) error {
		_, err := w.Write(p)
		return err
	}
}

var (
	quote      = []byte{'"'}
	labelClose = []byte{'"', ':'}
	comma      = []byte{','}
	braceOpen  = []byte{'{'}
	braceClose = []byte{'}'}
	brackOpen  = []byte{'['}
	brackClose = []byte{']'}
	null       = []byte("null")
)

// Dump serializes the tree rooted at tokens[0] and returns the number of
// tokens it spans. The walk is positional: each container is followed by
// exactly Size children, each of them a complete subtree.
//
// An absent primitive is written as null. A token run shorter than the
// sizes claim, or an undefined token, yields ErrInvalid.
func Dump(tokens []Token, sink Sink) (int, error) {
	if len(tokens) == 0 {
		return 0, ErrInvalid
	}

	t := &tokens[0]
	switch t.Type {
	case Primitive:
		if t.Data == nil {
			return 1, sink(null)
		}
		return 1, sink(t.Data)

	case Label, String:
		if err := sink(quote); err != nil {
			return 0, err
		}
		if len(t.Data) > 0 {
			if err := sink(t.Data); err != nil {
				return 0, err
			}
		}
		if t.Type == Label {
			return 1, sink(labelClose)
		}
		return 1, sink(quote)

	case Object:
		return dumpContainer(tokens, sink, braceOpen, braceClose, 2)

	case Array:
		return dumpContainer(tokens, sink, brackOpen, brackClose, 1)
	}

	return 0, ErrInvalid
}

// dumpContainer writes Size children of tokens[0], each made of per
// subtrees: a label and its value for objects, one value for arrays.
func dumpContainer(tokens []Token, sink Sink, opener, closer []byte, per int) (int, error) {
	if err := sink(opener); err != nil {
		return 0, err
	}

	j := 1
	size := tokens[0].Size
	for i := range size {
		for range per {
			if j >= len(tokens) {
				return 0, ErrInvalid
			}
			n, err := Dump(tokens[j:], sink)
			if err != nil {
				return 0, err
			}
			j += n
		}
		if i < size-1 {
			if err := sink(comma); err != nil {
				return 0, err
			}
		}
	}

	if err := sink(closer); err != nil {
		return 0, err
	}

	return j, nil
}
