package step

import (
	"bytes"
	"strings"
)

// EntityRef locates one entity record inside the raw file buffer. It is
// produced once by Scan and never mutated; buf[Offset:Offset+Length] is the
// full record text from '#' through the terminating ';'.
type EntityRef struct {
	ID     uint32
	Type   string // upper-cased entity type name
	Offset int
	Length int
	Line   int // 1-based line of the record's '#'
}

// Scan walks the buffer once and returns a ref for every well-formed
// `#id=TYPE(...);` record in file order. Records that do not match the shape
// (a '#' inside a header string, a missing '=', an unterminated literal) are
// skipped without error. Header and section lines carry no '#id=' prefix and
// fall out on their own.
func Scan(buf []byte) []EntityRef {
	// ~50 bytes per record is a decent estimate for real exchange files.
	refs := make([]EntityRef, 0, len(buf)/50)
	intern := make(map[string]string, 256)

	pos := 0
	line := 1
	for pos < len(buf) {
		hash := bytes.IndexByte(buf[pos:], '#')
		if hash < 0 {
			break
		}
		line += bytes.Count(buf[pos:pos+hash], nl)
		start := pos + hash
		recLine := line
		pos = start + 1

		idStart := pos
		for pos < len(buf) && isDigit(buf[pos]) {
			pos++
		}
		idEnd := pos
		for pos < len(buf) && isSpace(buf[pos]) {
			if buf[pos] == '\n' {
				line++
			}
			pos++
		}
		if idEnd == idStart || pos >= len(buf) || buf[pos] != '=' {
			// Not a record start. Rewind to just past the '#' and rescan;
			// line rewinds with it so the count stays in step.
			pos, line = start+1, recLine
			continue
		}
		pos++ // '='
		for pos < len(buf) && isSpace(buf[pos]) {
			if buf[pos] == '\n' {
				line++
			}
			pos++
		}

		nameStart := pos
		for pos < len(buf) && isNameByte(buf[pos]) {
			pos++
		}
		if pos == nameStart {
			pos, line = start+1, recLine
			continue
		}
		typeName := internType(intern, buf[nameStart:pos])

		end, endLine, ok := findTerminator(buf, pos, line)
		if !ok {
			break
		}
		pos, line = end, endLine

		refs = append(refs, EntityRef{
			ID:     parseID(buf[idStart:idEnd]),
			Type:   typeName,
			Offset: start,
			Length: end - start,
			Line:   recLine,
		})
	}
	return refs
}

var nl = []byte{'\n'}

// findTerminator locates the ';' ending the record starting the search at
// pos. Semicolons inside string literals do not terminate; a doubled quote
// inside a literal counts as a close-then-reopen, which is equivalent for
// this purpose. Returns the index one past the ';'.
func findTerminator(buf []byte, pos, line int) (end, endLine int, ok bool) {
	inString := false
	for ; pos < len(buf); pos++ {
		switch buf[pos] {
		case '\'':
			inString = !inString
		case '\n':
			line++
		case ';':
			if !inString {
				return pos + 1, line, true
			}
		}
	}
	return 0, 0, false
}

func parseID(digits []byte) uint32 {
	var id uint32
	for _, b := range digits {
		id = id*10 + uint32(b-'0')
	}
	return id
}

// internType returns a shared upper-cased copy of the type name. Large files
// repeat a few hundred names across millions of records; interning keeps one
// string per name instead of one per record.
func internType(intern map[string]string, name []byte) string {
	if t, ok := intern[string(name)]; ok {
		return t
	}
	t := strings.ToUpper(string(name))
	intern[t] = t
	if t != string(name) {
		intern[string(name)] = t
	}
	return t
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isNameByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || isDigit(b) || b == '_'
}
