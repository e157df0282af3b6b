// Package category assigns extracted commands to configured categories
// via per-field regex rules.
package category

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/kailayerhq/halp/internal/parser"
)

// Rule defines a category. A command belongs to the category when any one
// of the four patterns matches its corresponding field; empty patterns
// never match.
type Rule struct {
	Name             string
	Description      string
	CodeRegex        string
	CommentRegex     string
	CommandNameRegex string
	PathRegex        string
}

type compiledRule struct {
	rule    Rule
	code    *regexp.Regexp
	comment *regexp.Regexp
	name    *regexp.Regexp
	path    *regexp.Regexp
}

// Matcher matches commands against a fixed set of category rules.
type Matcher struct {
	rules    []compiledRule
	fallback string
}

// NewMatcher compiles the rule set. Rules are evaluated in name order so
// repeated runs over the same configuration see the same sequence. When
// caseSensitive is false every pattern applies case-insensitively; the
// flag is global, not per rule.
func NewMatcher(rules []Rule, fallback string, caseSensitive bool) (*Matcher, error) {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	m := &Matcher{fallback: fallback}
	for _, r := range sorted {
		cr := compiledRule{rule: r}
		for _, f := range []struct {
			pattern string
			dst     **regexp.Regexp
		}{
			{r.CodeRegex, &cr.code},
			{r.CommentRegex, &cr.comment},
			{r.CommandNameRegex, &cr.name},
			{r.PathRegex, &cr.path},
		} {
			if f.pattern == "" {
				continue
			}
			p := f.pattern
			if !caseSensitive {
				p = "(?i)" + p
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("category %q: compiling pattern %q: %w", r.Name, f.pattern, err)
			}
			*f.dst = re
		}
		m.rules = append(m.rules, cr)
	}
	return m, nil
}

// Fallback returns the reserved category name assigned when no rule
// matches.
func (m *Matcher) Fallback() string {
	return m.fallback
}

// Rules returns the rule set in evaluation order.
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	for i, cr := range m.rules {
		out[i] = cr.rule
	}
	return out
}

// Categorize returns the names of every category whose rule matches the
// record. Categorization is total: when nothing matches, the fallback
// category is returned alone.
func (m *Matcher) Categorize(rec parser.Record, path string) []string {
	var matched []string

	for _, cr := range m.rules {
		for _, probe := range []struct {
			re   *regexp.Regexp
			text string
		}{
			{cr.code, rec.Code},
			{cr.comment, rec.Description},
			{cr.name, rec.Name},
			{cr.path, path},
		} {
			if probe.re == nil || probe.text == "" {
				continue
			}
			if probe.re.MatchString(probe.text) {
				matched = append(matched, cr.rule.Name)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{m.fallback}
	}
	return matched
}
