package step

import (
	"strconv"
	"strings"
)

// Entity is one fully decoded record: its type name and positional
// attribute list.
type Entity struct {
	ID    uint32
	Type  string
	Attrs []Value
}

// Attr returns the i-th attribute, or ok=false when out of range.
func (e Entity) Attr(i int) (Value, bool) {
	if i < 0 || i >= len(e.Attrs) {
		return Value{}, false
	}
	return e.Attrs[i], true
}

// Ref returns attribute i as an entity reference.
func (e Entity) Ref(i int) (uint32, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return 0, false
	}
	return v.Ref()
}

// Str returns attribute i as a string.
func (e Entity) Str(i int) (string, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return "", false
	}
	return v.Str()
}

// Float returns attribute i as a float, coercing integers.
func (e Entity) Float(i int) (float64, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Int returns attribute i as an integer, truncating floats.
func (e Entity) Int(i int) (int64, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Enum returns attribute i as an enum name.
func (e Entity) Enum(i int) (string, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return "", false
	}
	return v.Enum()
}

// List returns attribute i as a value list.
func (e Entity) List(i int) ([]Value, bool) {
	v, ok := e.Attr(i)
	if !ok {
		return nil, false
	}
	return v.List()
}

// Decoder parses single records out of the raw buffer on demand. It holds no
// decode cache: a record queried twice is parsed twice, trading recompute for
// a flat memory profile across files where most records are never queried.
type Decoder struct {
	buf  []byte
	byID map[uint32]EntityRef
}

// NewDecoder returns a decoder over buf. byID may be nil when only
// Decode-by-ref is needed.
func NewDecoder(buf []byte, byID map[uint32]EntityRef) *Decoder {
	return &Decoder{buf: buf, byID: byID}
}

// Decode parses the record at ref into a typed attribute list. Any malformed
// record yields ok=false; the decoder never returns a partial entity.
func (d *Decoder) Decode(ref EntityRef) (Entity, bool) {
	if ref.Offset < 0 || ref.Length <= 0 || ref.Offset+ref.Length > len(d.buf) {
		return Entity{}, false
	}
	p := recParser{rec: d.buf[ref.Offset : ref.Offset+ref.Length]}
	return p.entity()
}

// DecodeID looks the id up in the index and decodes its record.
func (d *Decoder) DecodeID(id uint32) (Entity, bool) {
	ref, ok := d.byID[id]
	if !ok {
		return Entity{}, false
	}
	return d.Decode(ref)
}

// recParser is a recursive-descent parser over one record's bytes.
type recParser struct {
	rec []byte
	pos int
}

// entity parses `#id=TYPE(attr,...);`.
func (p *recParser) entity() (Entity, bool) {
	p.ws()
	if !p.expect('#') {
		return Entity{}, false
	}
	id, ok := p.digits()
	if !ok {
		return Entity{}, false
	}
	p.ws()
	if !p.expect('=') {
		return Entity{}, false
	}
	p.ws()
	name := p.name()
	if name == "" {
		return Entity{}, false
	}
	p.ws()
	attrs, ok := p.valueList()
	if !ok {
		return Entity{}, false
	}
	p.ws()
	if !p.expect(';') {
		return Entity{}, false
	}
	return Entity{ID: uint32(id), Type: strings.ToUpper(name), Attrs: attrs}, true
}

// valueList parses `(v, v, ...)` including the empty list `()`.
func (p *recParser) valueList() ([]Value, bool) {
	if !p.expect('(') {
		return nil, false
	}
	p.ws()
	if p.peek() == ')' {
		p.pos++
		return []Value{}, true
	}
	var items []Value
	for {
		v, ok := p.value()
		if !ok {
			return nil, false
		}
		items = append(items, v)
		p.ws()
		switch p.peek() {
		case ',':
			p.pos++
			p.ws()
		case ')':
			p.pos++
			return items, true
		default:
			return nil, false
		}
	}
}

// value dispatches on the first byte of a token.
func (p *recParser) value() (Value, bool) {
	p.ws()
	switch b := p.peek(); {
	case b == '$':
		p.pos++
		return Value{Kind: KindNull}, true
	case b == '*':
		p.pos++
		return Value{Kind: KindDerived}, true
	case b == '#':
		p.pos++
		id, ok := p.digits()
		if !ok {
			return Value{}, false
		}
		return Value{Kind: KindRef, RefID: uint32(id)}, true
	case b == '\'' || b == '"':
		return p.stringLit(b)
	case b == '.':
		return p.enumLit()
	case b == '(':
		items, ok := p.valueList()
		if !ok {
			return Value{}, false
		}
		return Value{Kind: KindList, Items: items}, true
	case b == '-' || isDigit(b):
		return p.number()
	case isNameByte(b):
		return p.typedValue()
	}
	return Value{}, false
}

// stringLit parses a quoted literal; a doubled quote is the escape for one
// quote character.
func (p *recParser) stringLit(quote byte) (Value, bool) {
	p.pos++
	start := p.pos
	escaped := false
	for p.pos < len(p.rec) {
		if p.rec[p.pos] != quote {
			p.pos++
			continue
		}
		if p.pos+1 < len(p.rec) && p.rec[p.pos+1] == quote {
			escaped = true
			p.pos += 2
			continue
		}
		text := string(p.rec[start:p.pos])
		p.pos++
		if escaped {
			text = strings.ReplaceAll(text, string([]byte{quote, quote}), string(quote))
		}
		return Value{Kind: KindString, StrVal: text}, true
	}
	return Value{}, false
}

// enumLit parses `.NAME.`.
func (p *recParser) enumLit() (Value, bool) {
	p.pos++
	start := p.pos
	for p.pos < len(p.rec) && isNameByte(p.rec[p.pos]) {
		p.pos++
	}
	if p.pos == start || p.peek() != '.' {
		return Value{}, false
	}
	name := string(p.rec[start:p.pos])
	p.pos++
	return Value{Kind: KindEnum, StrVal: name}, true
}

// number parses integers and floats, including the truncated `0.` form and
// scientific notation.
func (p *recParser) number() (Value, bool) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	hadDigit := false
	for p.pos < len(p.rec) && isDigit(p.rec[p.pos]) {
		p.pos++
		hadDigit = true
	}
	if !hadDigit {
		return Value{}, false
	}
	isFloat := false
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.rec) && isDigit(p.rec[p.pos]) {
			p.pos++
		}
	}
	if b := p.peek(); b == 'e' || b == 'E' {
		isFloat = true
		p.pos++
		if b := p.peek(); b == '+' || b == '-' {
			p.pos++
		}
		expStart := p.pos
		for p.pos < len(p.rec) && isDigit(p.rec[p.pos]) {
			p.pos++
		}
		if p.pos == expStart {
			return Value{}, false
		}
	}
	text := string(p.rec[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: KindFloat, FloatVal: f}, true
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, false
	}
	return Value{Kind: KindInt, IntVal: n}, true
}

// typedValue parses a wrapper like IFCBOOLEAN(.T.) and decays it to a list
// whose head is the wrapper name, so downstream code handles wrapped and
// plain values through one shape.
func (p *recParser) typedValue() (Value, bool) {
	name := p.name()
	if name == "" {
		return Value{}, false
	}
	p.ws()
	inner, ok := p.valueList()
	if !ok {
		return Value{}, false
	}
	items := make([]Value, 0, len(inner)+1)
	items = append(items, Value{Kind: KindString, StrVal: strings.ToUpper(name)})
	items = append(items, inner...)
	return Value{Kind: KindList, Items: items}, true
}

func (p *recParser) name() string {
	start := p.pos
	for p.pos < len(p.rec) && isNameByte(p.rec[p.pos]) {
		p.pos++
	}
	return string(p.rec[start:p.pos])
}

func (p *recParser) digits() (uint64, bool) {
	start := p.pos
	var n uint64
	for p.pos < len(p.rec) && isDigit(p.rec[p.pos]) {
		n = n*10 + uint64(p.rec[p.pos]-'0')
		p.pos++
	}
	return n, p.pos > start
}

func (p *recParser) ws() {
	for p.pos < len(p.rec) && isSpace(p.rec[p.pos]) {
		p.pos++
	}
}

func (p *recParser) peek() byte {
	if p.pos >= len(p.rec) {
		return 0
	}
	return p.rec[p.pos]
}

func (p *recParser) expect(b byte) bool {
	if p.peek() != b {
		return false
	}
	p.pos++
	return true
}
