package parser

import "strings"

// scanner is a byte cursor over file text. Construct parsers save the
// position on entry and restore it when the construct does not match.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

// literal consumes c when it is the next byte.
func (s *scanner) literal(c byte) bool {
	if s.eof() || s.src[s.pos] != c {
		return false
	}
	s.pos++
	return true
}

// ws consumes a run of spaces and tabs.
func (s *scanner) ws() bool {
	start := s.pos
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
	return s.pos > start
}

// newlines consumes a run of line breaks.
func (s *scanner) newlines() bool {
	start := s.pos
	for !s.eof() && (s.src[s.pos] == '\n' || s.src[s.pos] == '\r') {
		s.pos++
	}
	return s.pos > start
}

// whitespace consumes a run of any whitespace, line breaks included.
func (s *scanner) whitespace() bool {
	start := s.pos
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// keywordFold consumes kw case-insensitively.
func (s *scanner) keywordFold(kw string) bool {
	if len(s.src)-s.pos < len(kw) {
		return false
	}
	if !strings.EqualFold(s.src[s.pos:s.pos+len(kw)], kw) {
		return false
	}
	s.pos += len(kw)
	return true
}

// takeWhile consumes the run of bytes matching pred and returns it.
func (s *scanner) takeWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// restOfLine consumes up to, but not including, the next line break.
func (s *scanner) restOfLine() string {
	return s.takeWhile(func(b byte) bool { return b != '\n' && b != '\r' })
}

// skipLine consumes the current line and its trailing line breaks.
func (s *scanner) skipLine() {
	s.restOfLine()
	s.newlines()
}

// lineComment consumes a trailing same-line comment: optional whitespace,
// "#", optional whitespace, then the rest of the line. Nothing is consumed
// when no comment is present.
func (s *scanner) lineComment() (string, bool) {
	save := s.pos
	s.ws()
	if !s.literal('#') {
		s.pos = save
		return "", false
	}
	s.ws()
	return s.restOfLine(), true
}

// standaloneComment consumes a comment line immediately preceding a
// construct: any leading line breaks, optional whitespace, "#", optional
// whitespace, then the comment text.
func (s *scanner) standaloneComment() (string, bool) {
	save := s.pos
	s.newlines()
	s.ws()
	if !s.literal('#') {
		s.pos = save
		return "", false
	}
	s.ws()
	return s.restOfLine(), true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isWordOrHyphen(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// isAliasNameByte admits any byte legal in an alias name: everything but
// "=", whitespace, backslash, "$", and backtick.
func isAliasNameByte(b byte) bool {
	return b != '=' && b != '\\' && b != '$' && b != '`' && !isSpace(b)
}

// isExportNameByte additionally excludes quote characters.
func isExportNameByte(b byte) bool {
	return isAliasNameByte(b) && b != '\'' && b != '"'
}
