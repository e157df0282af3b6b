// Package parser extracts alias, export, and function definitions from
// shell configuration files.
package parser

import "regexp"

// Kind identifies the shell construct a record was extracted from.
type Kind string

const (
	KindAlias    Kind = "ALIAS"
	KindExport   Kind = "EXPORT"
	KindFunction Kind = "FUNCTION"
)

// Placement controls which comment becomes a construct's description.
type Placement string

const (
	// PlacementAbove uses only a standalone comment on the line above.
	PlacementAbove Placement = "above"
	// PlacementInline uses only a trailing comment on the same line
	// (for functions, a leading comment inside the body).
	PlacementInline Placement = "inline"
	// PlacementBest uses the inline comment when present, otherwise the
	// comment above.
	PlacementBest Placement = "best"
)

// Options configure a parse pass. The parser is a pure function of
// (text, Options); no global state is consulted.
type Options struct {
	Placement Placement
}

// resolve applies the comment placement policy to the comments found above
// and inline. An empty comment counts as absent, so BEST falls back to the
// above comment when the inline comment carries no text.
func (o Options) resolve(above, inline string) string {
	switch o.Placement {
	case PlacementAbove:
		return above
	case PlacementInline:
		return inline
	default:
		if inline != "" {
			return inline
		}
		return above
	}
}

// Record is one extracted construct occurrence.
type Record struct {
	Name        string
	Code        string
	Args        string // verbatim argument list, functions only
	Description string // empty when no comment applied
	Kind        Kind
}

// Construct-start lookaheads used by the file driver. A comment line
// directly above a construct is part of the construct, so each pattern
// admits one optional leading comment line.
var (
	aliasStartRe    = regexp.MustCompile(`^(?:[ \t]*#[^\n\r]*[\n\r])?[ \t]*(?i:alias)`)
	exportStartRe   = regexp.MustCompile(`^(?:[ \t]*#[^\n\r]*[\n\r])?[ \t]*(?i:export) [\w-]+=`)
	functionStartRe = regexp.MustCompile(`^(?:[ \t]*#[^\n\r]*[\n\r])?[ \t]*(?:(?i:func(?:tion)?) )?[\w-]+\(\)`)
)

// ParseFile scans text for alias, export, and function definitions.
// Lines that do not look like the start of a construct are skipped; at
// each candidate position the alias, export, and function parsers are
// tried in order and the first match wins. A failure to parse is never an
// error: the records extracted so far are returned.
func ParseFile(text string, opts Options) []Record {
	var records []Record

	s := &scanner{src: text}
	for !s.eof() {
		if !atConstructStart(s) {
			s.skipLine()
			continue
		}

		rec, ok := parseAlias(s, opts)
		if !ok {
			rec, ok = parseExport(s, opts)
		}
		if !ok {
			rec, ok = parseFunction(s, opts)
		}
		if !ok {
			// The lookahead fired but no construct parser agreed;
			// keep what was extracted up to this point.
			break
		}
		records = append(records, rec)
	}

	return records
}

func atConstructStart(s *scanner) bool {
	rest := s.src[s.pos:]
	return aliasStartRe.MatchString(rest) ||
		exportStartRe.MatchString(rest) ||
		functionStartRe.MatchString(rest)
}
