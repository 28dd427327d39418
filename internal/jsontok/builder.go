package jsontok

// Builder composes a token tree through calls instead of parsing.
//
// Inside an object every value needs a name, which becomes a Label token
// ahead of it. Inside an array or at the root the name is ignored. A nil
// name or value is absent; an empty non-nil slice is present but empty.
// Names and values are referenced, not copied.
//
// Every method returns the next free token index.
type Builder struct {
	Arena
}

// NewBuilder returns a builder over storage.
func NewBuilder(storage []Token) *Builder {
	b := &Builder{}
	b.Init(storage)
	return b
}

// StartObject opens an object, named when inside an object.
func (b *Builder) StartObject(name []byte) (int, error) {
	return b.startContainer(Object, name)
}

// EndObject closes the open object.
func (b *Builder) EndObject() (int, error) {
	return b.endContainer(Object)
}

// StartArray opens an array, named when inside an object.
func (b *Builder) StartArray(name []byte) (int, error) {
	return b.startContainer(Array, name)
}

// EndArray closes the open array.
func (b *Builder) EndArray() (int, error) {
	return b.endContainer(Array)
}

// AppendString appends a string whose content is value as written: it must
// already be escaped for JSON.
func (b *Builder) AppendString(name, value []byte) (int, error) {
	return b.appendLeaf(String, name, value)
}

// AppendPrimitive appends a number, true, false or null as raw text.
func (b *Builder) AppendPrimitive(name, value []byte) (int, error) {
	return b.appendLeaf(Primitive, name, value)
}

// prepare allocates the next value token, preceded by its label when the
// open container is an object, and links both into the tree.
func (b *Builder) prepare(name []byte) (int, error) {
	n := 1
	if b.openType() == Object {
		if name == nil {
			return Unset, ErrFactoryMisuse
		}
		n = 2
	}

	i, err := b.Allocate(n)
	if err != nil {
		return Unset, err
	}
	b.grow()

	if n == 2 {
		label := &b.tokens[i]
		label.Type = Label
		label.Data = name
		label.Size = 1
		label.Parent = b.open
		b.tokens[i+1].Parent = i
		return i + 1, nil
	}

	b.tokens[i].Parent = b.open
	return i, nil
}

func (b *Builder) startContainer(typ Type, name []byte) (int, error) {
	i, err := b.prepare(name)
	if err != nil {
		return Unset, err
	}
	b.tokens[i].Type = typ
	b.open = i

	return b.next, nil
}

// endContainer closes the open container. Its parent is either a label,
// whose object becomes open again, an array, or nothing at the root.
func (b *Builder) endContainer(typ Type) (int, error) {
	if b.open == Unset || b.tokens[b.open].Type != typ {
		return Unset, ErrFactoryMisuse
	}

	parent := b.tokens[b.open].Parent
	if parent == Unset {
		b.open = Unset
		return b.next, nil
	}

	switch b.tokens[parent].Type {
	case Label:
		b.open = b.tokens[parent].Parent
	case Array:
		b.open = parent
	default:
		return Unset, ErrFactoryMisuse
	}

	return b.next, nil
}

func (b *Builder) appendLeaf(typ Type, name, value []byte) (int, error) {
	i, err := b.prepare(name)
	if err != nil {
		return Unset, err
	}
	b.tokens[i].Type = typ
	b.tokens[i].Data = value

	return b.next, nil
}
