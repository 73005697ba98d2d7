package syntax

import (
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking over an in-memory
// UTF-8 buffer.
type source struct {
	buf []byte // source buffer

	// Position tracking
	filename string // source name
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, byte offset)
	base     int    // byte offset of buf[0] in the enclosing source

	// Current state
	ch    rune // current character, -1 for EOF
	offs  int  // byte offset in buf just after ch
	width int  // width of ch in bytes
}

// newSource creates a source over buf whose first byte sits at the given
// line, column and absolute offset. Template sub-sources use this to keep
// positions relative to the enclosing text.
func newSource(filename string, buf []byte, line, col uint32, base int) *source {
	s := &source{
		buf:      buf,
		filename: filename,
		line:     line,
		col:      col - 1, // incremented to col by the first nextch()
		base:     base,
		ch:       -1, // sentinel: "before first char", prevents a line bump
	}
	s.nextch()
	return s
}

// nextch reads the next character from the source and updates position.
// Sets s.ch to -1 at EOF.
//
// (line, col) always refers to the position of s.ch after nextch() returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col += uint32(s.width)
		if s.width == 0 {
			s.col++
		}
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		s.width = 0
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.width = width
	s.offs += width
}

// peek returns the character after s.ch without consuming it.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return Pos{filename: s.filename, line: s.line, col: s.col, offs: s.base + s.offs - s.width}
}

// Character classification helpers

// isLetter reports whether r is a letter (a-z, A-Z, or _) or a non-ASCII letter.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isHexDigit reports whether r is a hexadecimal digit (0-9, a-f, A-F).
func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower returns the lowercase version of r if r is an ASCII letter.
// ('a' - 'A') is 0x20; OR-ing it in lowers ASCII letters and leaves digits alone.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports whether r is a whitespace character (space, tab, or carriage return).
// Note: newline '\n' is NOT included because it may trigger ASI.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}
