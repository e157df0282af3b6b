package parser

// parseAlias matches `alias name=value` with an optional comment above or
// inline. Both comments are always consumed; the placement policy decides
// which one, if any, becomes the description.
func parseAlias(s *scanner, opts Options) (Record, bool) {
	save := s.pos

	above, _ := s.standaloneComment()
	s.newlines()
	s.ws()

	if !s.keywordFold("alias") || !s.ws() {
		s.pos = save
		return Record{}, false
	}

	name := s.takeWhile(isAliasNameByte)
	if name == "" || !s.literal('=') {
		s.pos = save
		return Record{}, false
	}

	code, ok := s.value()
	if !ok {
		s.pos = save
		return Record{}, false
	}

	inline, _ := s.lineComment()
	s.newlines()

	return Record{
		Kind:        KindAlias,
		Name:        name,
		Code:        code,
		Description: opts.resolve(above, inline),
	}, true
}

// parseExport matches `export NAME=value`; identical in shape to an alias
// with a stricter name character set.
func parseExport(s *scanner, opts Options) (Record, bool) {
	save := s.pos

	above, _ := s.standaloneComment()
	s.newlines()
	s.ws()

	if !s.keywordFold("export") || !s.ws() {
		s.pos = save
		return Record{}, false
	}

	name := s.takeWhile(isExportNameByte)
	if name == "" || !s.literal('=') {
		s.pos = save
		return Record{}, false
	}

	code, ok := s.value()
	if !ok {
		s.pos = save
		return Record{}, false
	}

	inline, _ := s.lineComment()
	s.newlines()

	return Record{
		Kind:        KindExport,
		Name:        name,
		Code:        code,
		Description: opts.resolve(above, inline),
	}, true
}

// parseFunction matches `[function|func] name(args) { body }`. The body
// runs to the first "}" preceded by a whitespace byte; nested braces are
// not tracked. The inline description, when wanted, is a leading comment
// line inside the body.
func parseFunction(s *scanner, opts Options) (Record, bool) {
	save := s.pos

	above, _ := s.standaloneComment()
	s.newlines()

	// Optional keyword; it must be followed by whitespace or it is part
	// of the function name.
	kwSave := s.pos
	s.ws()
	if s.keywordFold("function") || s.keywordFold("func") {
		if !s.ws() {
			s.pos = kwSave
		}
	} else {
		s.pos = kwSave
	}

	s.ws()
	name := s.takeWhile(isWordOrHyphen)
	if name == "" || !s.literal('(') {
		s.pos = save
		return Record{}, false
	}

	args := s.takeWhile(func(b byte) bool { return b != ')' })
	if !s.literal(')') {
		s.pos = save
		return Record{}, false
	}

	s.whitespace()
	if !s.literal('{') {
		s.pos = save
		return Record{}, false
	}

	body, ok := s.functionBody()
	if !ok {
		s.pos = save
		return Record{}, false
	}

	inline := ""
	if opts.Placement != PlacementAbove {
		inline = bodyComment(body)
	}

	return Record{
		Kind:        KindFunction,
		Name:        name,
		Code:        body,
		Args:        args,
		Description: opts.resolve(above, inline),
	}, true
}

// value consumes a single-quoted, double-quoted, or bare value. Quoted
// values run to the next closing quote and must be non-empty; bare values
// run to the next whitespace.
func (s *scanner) value() (string, bool) {
	switch s.peek() {
	case '\'':
		s.pos++
		v := s.takeWhile(func(b byte) bool { return b != '\'' })
		if v == "" || !s.literal('\'') {
			return "", false
		}
		return v, true
	case '"':
		s.pos++
		v := s.takeWhile(func(b byte) bool { return b != '"' })
		if v == "" || !s.literal('"') {
			return "", false
		}
		return v, true
	default:
		v := s.takeWhile(func(b byte) bool { return !isSpace(b) })
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// functionBody consumes up to the first "}" preceded by whitespace,
// returning everything before that whitespace, and consumes the closer.
func (s *scanner) functionBody() (string, bool) {
	for i := s.pos; i+1 < len(s.src); i++ {
		if isSpace(s.src[i]) && s.src[i+1] == '}' {
			body := s.src[s.pos:i]
			s.pos = i + 2
			return body, true
		}
	}
	return "", false
}

// bodyComment extracts the leading comment line of a function body, if
// any. Only line breaks and indentation may precede it. A structured
// "desc"/"description" prefix followed by "-", ":", or "=" is stripped.
func bodyComment(body string) string {
	s := &scanner{src: body}
	s.newlines()
	s.ws()
	if !s.literal('#') {
		return ""
	}
	s.ws()
	return stripDescPrefix(s.restOfLine())
}

func stripDescPrefix(text string) string {
	s := &scanner{src: text}
	if !s.keywordFold("description") && !s.keywordFold("desc") {
		return text
	}
	s.ws()
	c := s.peek()
	if c != '-' && c != ':' && c != '=' {
		return text
	}
	s.pos++
	s.ws()
	return s.src[s.pos:]
}
