package jsontok

// Unset marks an offset, length or index that has not been assigned.
const Unset = -1

// Type identifies the syntactic role of a token.
type Type uint8

const (
	Undefined Type = iota
	Object
	Array
	// Label is an object key. It always has exactly one child, its value.
	Label
	String
	// Primitive is a number, true, false or null, kept as raw text.
	Primitive
)

func (t Type) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Object:
		return "object"
	case Array:
		return "array"
	case Label:
		return "label"
	case String:
		return "string"
	case Primitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Token is one unit of JSON structure.
type Token struct {
	Type Type

	// Data is the raw content of a Label, String or Primitive; quotes are
	// excluded and escapes are left as written. It is nil until resolved.
	Data []byte

	// Start and End are byte offsets into the parsed input. A container
	// whose End is Unset is still open.
	Start int
	End   int

	// Size counts immediate children: members of an Object, elements of
	// an Array, and always 1 for a complete Label.
	Size int

	// Parent is the index of the enclosing token, or Unset at the root.
	Parent int
}

// Len returns the length of Data, or Unset while Data is unresolved.
func (t *Token) Len() int {
	if t.Data == nil {
		return Unset
	}
	return len(t.Data)
}

func (t *Token) reset() {
	*t = Token{
		Start:  Unset,
		End:    Unset,
		Parent: Unset,
	}
}

func (t *Token) isOpen() bool {
	return t.Start != Unset && t.End == Unset
}

func (t *Token) isLeaf() bool {
	return t.Type == Label || t.Type == String || t.Type == Primitive
}
