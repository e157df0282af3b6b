// Package view renders indexer summaries and command listings for the
// terminal.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailayerhq/halp/internal/indexer"
	"github.com/kailayerhq/halp/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(14)
)

// Summary renders the result of an indexing pass.
func Summary(s *indexer.Summary, showFiles bool) string {
	var b strings.Builder

	if s.Rebuild {
		b.WriteString(titleStyle.Render("Rebuilt command index"))
	} else {
		b.WriteString(titleStyle.Render("Indexed commands"))
	}
	b.WriteString("\n\n")

	for _, g := range s.Globs {
		if g.Files == 0 {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("glob matched no files: %s", g.Pattern)))
			continue
		}
		fmt.Fprintf(&b, "  %d file(s) from %s\n", g.Files, g.Pattern)
	}

	if showFiles {
		for _, f := range s.Files {
			if f.Commands == 0 {
				fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("no commands found in %s", f.Path)))
				continue
			}
			fmt.Fprintf(&b, "  %d command(s) from %s\n", f.Commands, f.Path)
		}
	}

	fmt.Fprintf(&b, "\n  Categories: %d\n", len(s.Categories))
	fmt.Fprintf(&b, "  Commands indexed: %d\n", s.TotalCommands)
	return b.String()
}

// List renders commands grouped by category. With namesOnly, one name per
// line and no grouping.
func List(commands []store.Command, namesOnly bool) string {
	if len(commands) == 0 {
		return dimStyle.Render("no commands to display") + "\n"
	}

	if namesOnly {
		var b strings.Builder
		for _, c := range commands {
			b.WriteString(c.Name)
			b.WriteByte('\n')
		}
		return b.String()
	}

	grouped := make(map[string][]store.Command)
	for _, c := range commands {
		cats := c.Categories
		if len(cats) == 0 {
			cats = []string{""}
		}
		for _, cat := range cats {
			grouped[cat] = append(grouped[cat], c)
		}
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(headerStyle.Render(name))
		b.WriteByte('\n')
		for _, c := range grouped[name] {
			fmt.Fprintf(&b, "  %s %s  %s\n",
				idStyle.Render(fmt.Sprintf("#%d", c.ID)), c.Name, dimStyle.Render(oneLine(c.Description)))
		}
	}
	return b.String()
}

// Detail renders one command in full.
func Detail(c *store.Command) string {
	var b strings.Builder

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	row("Command", headerStyle.Render(c.Name))
	row("ID", idStyle.Render(fmt.Sprintf("%d", c.ID)))
	row("Description", c.Description)
	row("Categories", strings.Join(c.Categories, ", "))
	row("Type", titleCase(c.Type))
	row("File", dimStyle.Render(c.FilePath))
	if c.Hidden {
		row("Hidden", "yes")
	}
	row("Code", "")
	b.WriteString(indent(displayCode(c), "    "))
	b.WriteByte('\n')
	return b.String()
}

// displayCode formats the stored code per construct kind: exports render
// as the original assignment, function bodies lose a leading blank line.
func displayCode(c *store.Command) string {
	switch c.Type {
	case "EXPORT":
		return fmt.Sprintf("%s=%s", c.Name, c.Code)
	case "FUNCTION":
		return strings.TrimPrefix(c.Code, "\n")
	default:
		return c.Code
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

func oneLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
