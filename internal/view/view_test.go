package view

import (
	"strings"
	"testing"

	"github.com/kailayerhq/halp/internal/indexer"
	"github.com/kailayerhq/halp/internal/store"
)

func TestSummary(t *testing.T) {
	s := &indexer.Summary{
		Globs:         []indexer.GlobCount{{Pattern: "~/.bashrc", Files: 1}, {Pattern: "~/none/*.sh", Files: 0}},
		Files:         []indexer.FileCount{{Path: "/home/u/.bashrc", Commands: 12}},
		Categories:    []string{"git", "uncategorized"},
		TotalCommands: 12,
		Rebuild:       true,
	}

	out := Summary(s, true)
	for _, want := range []string{
		"Rebuilt command index",
		"1 file(s) from ~/.bashrc",
		"glob matched no files: ~/none/*.sh",
		"12 command(s) from /home/u/.bashrc",
		"Categories: 2",
		"Commands indexed: 12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	out = Summary(&indexer.Summary{}, false)
	if !strings.Contains(out, "Indexed commands") {
		t.Errorf("incremental summary title wrong:\n%s", out)
	}
}

func TestList(t *testing.T) {
	commands := []store.Command{
		{ID: 1, Name: "gco", Description: "checkout", Categories: []string{"git"}},
		{ID: 2, Name: "ll", Description: "list all\nsecond line", Categories: []string{"shell"}},
	}

	out := List(commands, false)
	for _, want := range []string{"git", "shell", "gco", "ll", "#1", "#2", "list all"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "second line") {
		t.Error("list shows more than the first description line")
	}

	out = List(commands, true)
	if out != "gco\nll\n" {
		t.Errorf("names only = %q", out)
	}

	if out := List(nil, false); !strings.Contains(out, "no commands") {
		t.Errorf("empty list = %q", out)
	}
}

func TestDetailDisplayCode(t *testing.T) {
	export := &store.Command{ID: 3, Name: "EDITOR", Code: "vim", Type: "EXPORT"}
	out := Detail(export)
	if !strings.Contains(out, "EDITOR=vim") {
		t.Errorf("export detail missing assignment:\n%s", out)
	}
	if !strings.Contains(out, "Export") {
		t.Errorf("export detail missing title-cased type:\n%s", out)
	}

	fn := &store.Command{ID: 4, Name: "greet", Code: "\necho hello", Type: "FUNCTION", Hidden: true}
	out = Detail(fn)
	if !strings.Contains(out, "    echo hello") {
		t.Errorf("function detail missing indented body:\n%s", out)
	}
	if strings.Contains(out, "\n\n    echo") {
		t.Errorf("function body keeps leading blank line:\n%s", out)
	}
	if !strings.Contains(out, "Hidden") {
		t.Errorf("hidden flag not shown:\n%s", out)
	}
}
