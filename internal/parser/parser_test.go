package parser

import "testing"

const sampleFile = `# This is a sample shell configuration
# containing a mix of constructs

some plain text

# comment above
    EXPORT PATH=one

# comment above
alias one='one'

# comment above
function one() {
    # comment inline
    builtin cd "$@" || return 1
    ll
}

export TEXT="two" # comment inline

    function two() {
        echo "Hello World";
    }

    alias ls='two' # comment inline [arg]

function three() {echo "Hello World"; }

alias ls='three'
test

    export PATH=$PATH:/usr/local/bin
`

func TestParseFileSample(t *testing.T) {
	records := ParseFile(sampleFile, Options{Placement: PlacementBest})
	if len(records) != 9 {
		t.Fatalf("expected 9 records, got %d: %+v", len(records), records)
	}

	want := []struct {
		kind Kind
		name string
		code string
		desc string
	}{
		{KindExport, "PATH", "one", "comment above"},
		{KindAlias, "one", "one", "comment above"},
		{KindFunction, "one", "\n    # comment inline\n    builtin cd \"$@\" || return 1\n    ll", "comment inline"},
		{KindExport, "TEXT", "two", "comment inline"},
		{KindFunction, "two", "\n        echo \"Hello World\";\n   ", ""},
		{KindAlias, "ls", "two", "comment inline [arg]"},
		{KindFunction, "three", "echo \"Hello World\";", ""},
		{KindAlias, "ls", "three", ""},
		{KindExport, "PATH", "$PATH:/usr/local/bin", ""},
	}

	var aliases, exports, functions int
	for i, w := range want {
		got := records[i]
		if got.Kind != w.kind || got.Name != w.name || got.Code != w.code || got.Description != w.desc {
			t.Errorf("record %d: got %+v, want %+v", i, got, w)
		}
		switch got.Kind {
		case KindAlias:
			aliases++
		case KindExport:
			exports++
		case KindFunction:
			functions++
		}
	}
	if aliases != 3 || exports != 3 || functions != 3 {
		t.Errorf("counts: %d aliases, %d exports, %d functions, want 3 each",
			aliases, exports, functions)
	}
}

func TestParseFileAbovePlacement(t *testing.T) {
	records := ParseFile(sampleFile, Options{Placement: PlacementAbove})
	if len(records) != 9 {
		t.Fatalf("expected 9 records, got %d", len(records))
	}
	if records[2].Description != "comment above" {
		t.Errorf("function one: description = %q, want %q", records[2].Description, "comment above")
	}
	if records[3].Description != "" {
		t.Errorf("export TEXT: description = %q, want empty", records[3].Description)
	}
}

func TestParseFileEmptyInput(t *testing.T) {
	if got := ParseFile("", Options{Placement: PlacementBest}); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
	if got := ParseFile("just some text\nwith no constructs\n", Options{Placement: PlacementBest}); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}

func TestParseFileStopsOnUnparsableConstruct(t *testing.T) {
	// "aliases_file" trips the alias lookahead but parses as nothing, so
	// extraction stops with the records gathered so far.
	text := "alias good='x'\naliases_file=/tmp/x\nalias later='y'\n"
	records := ParseFile(text, Options{Placement: PlacementBest})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	if records[0].Name != "good" {
		t.Errorf("name = %q, want good", records[0].Name)
	}
}

func TestResolvePlacement(t *testing.T) {
	tests := []struct {
		placement Placement
		above     string
		inline    string
		want      string
	}{
		{PlacementAbove, "a", "i", "a"},
		{PlacementAbove, "", "i", ""},
		{PlacementInline, "a", "i", "i"},
		{PlacementInline, "a", "", ""},
		{PlacementBest, "a", "i", "i"},
		{PlacementBest, "a", "", "a"},
		{PlacementBest, "", "", ""},
	}
	for _, tt := range tests {
		opts := Options{Placement: tt.placement}
		if got := opts.resolve(tt.above, tt.inline); got != tt.want {
			t.Errorf("%s resolve(%q, %q) = %q, want %q",
				tt.placement, tt.above, tt.inline, got, tt.want)
		}
	}
}
