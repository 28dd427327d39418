package jsontok

// Parser tokenizes JSON text into its arena.
type Parser struct {
	Arena
	pos int
}

// NewParser returns a parser over storage. A nil storage gives a parser in
// sizing mode.
func NewParser(storage []Token) *Parser {
	p := &Parser{}
	p.Init(storage)
	return p
}

// Init attaches storage, empties the arena and rewinds to position 0.
func (p *Parser) Init(storage []Token) {
	p.Arena.Init(storage)
	p.pos = 0
}

// Reset empties the arena and rewinds to position 0, keeping the storage.
func (p *Parser) Reset() {
	p.Init(p.tokens)
}

// Pos returns the current offset in the input. After a failed Parse it is
// the start of the token that failed.
func (p *Parser) Pos() int {
	return p.pos
}

// Parse tokenizes js and returns the number of tokens it holds.
//
// In sizing mode nothing is written: only strings, escapes and primitives
// are validated, and the result is the exact capacity a real parse needs.
// A NUL byte ends the input.
//
// On error the arena is consistent but incomplete; call Reset before
// parsing again.
func (p *Parser) Parse(js []byte) (int, error) {
	count := p.next

	for ; p.pos < len(js) && js[p.pos] != 0; p.pos++ {
		switch c := js[p.pos]; c {
		case '{', '[':
			count++
			if p.Sizing() {
				break
			}
			typ := Object
			if c == '[' {
				typ = Array
			}
			if err := p.openContainer(typ); err != nil {
				return 0, err
			}

		case '}', ']':
			if p.Sizing() {
				break
			}
			typ := Object
			if c == ']' {
				typ = Array
			}
			if err := p.closeContainer(typ); err != nil {
				return 0, err
			}

		case '"':
			if err := p.parseString(js); err != nil {
				return 0, err
			}
			count++
			p.grow()

		case '\t', '\r', '\n', ' ':

		case ':':
			if err := p.colon(); err != nil {
				return 0, err
			}

		case ',':
			if err := p.comma(); err != nil {
				return 0, err
			}

		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 't', 'f', 'n':
			if err := p.parsePrimitive(js); err != nil {
				return 0, err
			}
			count++
			p.grow()

		default:
			return 0, ErrInvalid
		}
	}

	if p.Sizing() {
		return count, nil
	}
	if err := p.resolve(js); err != nil {
		return 0, err
	}

	return count, nil
}

// acceptValue reports whether a container or primitive may start here.
// Object members must start with a label, and a label takes one value.
func (p *Parser) acceptValue() error {
	if p.open == Unset {
		return nil
	}

	t := &p.tokens[p.open]
	switch t.Type {
	case Object:
		return ErrInvalid
	case Label:
		if t.Size != 0 {
			return ErrInvalid
		}
	}

	return nil
}

func (p *Parser) openContainer(typ Type) error {
	if err := p.acceptValue(); err != nil {
		return err
	}

	i, err := p.Allocate(1)
	if err != nil {
		return err
	}

	t := &p.tokens[i]
	if p.open != Unset {
		p.tokens[p.open].Size++
		t.Parent = p.open
	}
	t.Type = typ
	t.Start = p.pos
	p.open = i

	return nil
}

// closeContainer walks up from the last token to the nearest open
// container and closes it.
func (p *Parser) closeContainer(typ Type) error {
	if p.next < 1 {
		return ErrInvalid
	}
	if p.openType() == Label && p.tokens[p.open].Size == 0 {
		return ErrInvalid
	}

	i := p.next - 1
	for {
		t := &p.tokens[i]
		if t.isOpen() {
			if t.Type != typ {
				return ErrInvalid
			}
			t.End = p.pos + 1
			p.open = t.Parent
			return nil
		}
		if t.Parent == Unset {
			return ErrInvalid
		}
		i = t.Parent
	}
}

// colon makes the label just scanned the open token, so the value that
// follows becomes its child.
func (p *Parser) colon() error {
	if p.Sizing() {
		return nil
	}

	last := p.next - 1
	if last < 0 {
		return ErrInvalid
	}
	t := &p.tokens[last]
	if t.Type != Label || t.Size != 0 || t.Parent != p.open {
		return ErrInvalid
	}
	p.open = last

	return nil
}

// comma ends a label/value pair by moving back to the enclosing object.
func (p *Parser) comma() error {
	if p.Sizing() || p.open == Unset {
		return nil
	}

	t := &p.tokens[p.open]
	if t.Type == Object || t.Type == Array {
		return nil
	}
	if t.Size == 0 {
		return ErrInvalid
	}
	p.open = t.Parent

	return nil
}

// parseString scans a quoted string starting at the opening quote and
// leaves pos on the closing quote.
func (p *Parser) parseString(js []byte) error {
	start := p.pos

	if !p.Sizing() && p.openType() == Label && p.tokens[p.open].Size != 0 {
		return ErrInvalid
	}

	for p.pos++; p.pos < len(js) && js[p.pos] != 0; p.pos++ {
		c := js[p.pos]

		if c == '"' {
			if p.Sizing() {
				return nil
			}
			i, err := p.Allocate(1)
			if err != nil {
				p.pos = start
				return err
			}
			typ := String
			if p.openType() == Object {
				typ = Label
			}
			p.fill(i, typ, start+1, p.pos)
			return nil
		}

		if c != '\\' || p.pos+1 >= len(js) {
			continue
		}

		p.pos++
		switch js[p.pos] {
		case '"', '/', '\\', 'b', 'f', 'r', 'n', 't':
		case 'u':
			p.pos++
			for n := 0; n < 4 && p.pos < len(js) && js[p.pos] != 0; n++ {
				if !isHex(js[p.pos]) {
					p.pos = start
					return ErrInvalid
				}
				p.pos++
			}
			p.pos--
		default:
			p.pos = start
			return ErrInvalid
		}
	}

	p.pos = start
	return ErrIncomplete
}

// parsePrimitive scans a number, true, false or null and leaves pos on its
// last byte. A primitive must be followed by whitespace, a comma or a
// closer, so input ending inside one is incomplete.
func (p *Parser) parsePrimitive(js []byte) error {
	if !p.Sizing() {
		if err := p.acceptValue(); err != nil {
			return err
		}
	}

	start := p.pos
	end := start
	for ; end < len(js) && js[end] != 0 && !isTerminator(js[end]); end++ {
		if js[end] < 32 || js[end] >= 127 {
			return ErrInvalid
		}
	}
	if end == len(js) || js[end] == 0 {
		return ErrIncomplete
	}

	if !p.Sizing() {
		i, err := p.Allocate(1)
		if err != nil {
			return err
		}
		p.fill(i, Primitive, start, end)
	}
	p.pos = end - 1

	return nil
}

func (p *Parser) fill(i int, typ Type, start, end int) {
	t := &p.tokens[i]
	t.Type = typ
	t.Start = start
	t.End = end
	t.Parent = p.open
}

// resolve rejects unclosed containers and incomplete labels, then points
// leaf tokens at their bytes in js.
func (p *Parser) resolve(js []byte) error {
	for i := p.next - 1; i >= 0; i-- {
		if p.tokens[i].isOpen() {
			return ErrIncomplete
		}
	}

	for i := range p.next {
		t := &p.tokens[i]
		if t.Type == Label && t.Size != 1 {
			return ErrInvalid
		}
		if t.isLeaf() {
			t.Data = js[t.Start:t.End:t.End]
		}
	}

	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isTerminator(c byte) bool {
	switch c {
	case '\t', '\r', '\n', ' ', ',', ']', '}':
		return true
	}
	return false
}
