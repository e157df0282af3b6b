package parser

import "testing"

func parseOne(t *testing.T, input string, placement Placement) Record {
	t.Helper()
	records := ParseFile(input, Options{Placement: placement})
	if len(records) != 1 {
		t.Fatalf("expected 1 record from %q, got %d", input, len(records))
	}
	return records[0]
}

func TestParseAliasPlacement(t *testing.T) {
	tests := []struct {
		placement Placement
		input     string
		name      string
		code      string
		desc      string
	}{
		{PlacementBest, "     ALIAS ls='ls -l'\n", "ls", "ls -l", ""},
		{PlacementBest, "alias ls=\"ls -l\"\n", "ls", "ls -l", ""},
		{PlacementBest, "alias ls='ls -l' # comment is [here]\n", "ls", "ls -l", "comment is [here]"},
		{PlacementBest, "# comment 1\n    alias ls='ls -l' # comment 2\n", "ls", "ls -l", "comment 2"},
		{PlacementBest, " # comment is here\nalias ls='ls -l'\n", "ls", "ls -l", "comment is here"},

		{PlacementAbove, "     ALIAS ls='ls -l'\n", "ls", "ls -l", ""},
		{PlacementAbove, "alias ls='ls -l' # comment is here\n", "ls", "ls -l", ""},
		{PlacementAbove, "# comment 1\n    alias ls='ls -l' # comment 2\n", "ls", "ls -l", "comment 1"},
		{PlacementAbove, " # comment is here\nalias ls='ls -l'\n", "ls", "ls -l", "comment is here"},

		{PlacementInline, "     ALIAS ls='ls -l'\n", "ls", "ls -l", ""},
		{PlacementInline, "alias ls='ls -l' # comment is here\n", "ls", "ls -l", "comment is here"},
		{PlacementInline, "# comment 1\n    alias ls='ls -l' # comment 2\n", "ls", "ls -l", "comment 2"},
		{PlacementInline, " # comment is here\nalias ls='ls -l'\n", "ls", "ls -l", ""},
	}

	for _, tt := range tests {
		rec := parseOne(t, tt.input, tt.placement)
		if rec.Kind != KindAlias {
			t.Errorf("%s %q: kind = %s, want ALIAS", tt.placement, tt.input, rec.Kind)
		}
		if rec.Name != tt.name || rec.Code != tt.code || rec.Description != tt.desc {
			t.Errorf("%s %q: got (%q, %q, %q), want (%q, %q, %q)",
				tt.placement, tt.input, rec.Name, rec.Code, rec.Description, tt.name, tt.code, tt.desc)
		}
	}
}

func TestParseExportPlacement(t *testing.T) {
	tests := []struct {
		placement Placement
		input     string
		name      string
		code      string
		desc      string
	}{
		{PlacementBest, "  export PATH=$PATH:/usr/local/bin\n", "PATH", "$PATH:/usr/local/bin", ""},
		{PlacementBest, "export PATH=\"$PATH:/usr/local/bin\"\n", "PATH", "$PATH:/usr/local/bin", ""},
		{PlacementBest, "export PATH='$PATH:/usr/local/bin' # comment is here\n", "PATH", "$PATH:/usr/local/bin", "comment is here"},
		{PlacementBest, "# comment 1\nexport PATH='$PATH:/usr/local/bin'\n", "PATH", "$PATH:/usr/local/bin", "comment 1"},
		{PlacementBest, "# comment 1\nexport PATH='$PATH:/usr/local/bin' # comment 2\n", "PATH", "$PATH:/usr/local/bin", "comment 2"},

		{PlacementAbove, "export PATH='$PATH:/usr/local/bin' # comment is here\n", "PATH", "$PATH:/usr/local/bin", ""},
		{PlacementAbove, "# comment 1\nexport PATH='$PATH:/usr/local/bin' # comment 2\n", "PATH", "$PATH:/usr/local/bin", "comment 1"},

		{PlacementInline, "export PATH='$PATH:/usr/local/bin' # comment 1\n", "PATH", "$PATH:/usr/local/bin", "comment 1"},
		{PlacementInline, "# comment 1\nexport PATH='$PATH:/usr/local/bin'\n", "PATH", "$PATH:/usr/local/bin", ""},
	}

	for _, tt := range tests {
		rec := parseOne(t, tt.input, tt.placement)
		if rec.Kind != KindExport {
			t.Errorf("%s %q: kind = %s, want EXPORT", tt.placement, tt.input, rec.Kind)
		}
		if rec.Name != tt.name || rec.Code != tt.code || rec.Description != tt.desc {
			t.Errorf("%s %q: got (%q, %q, %q), want (%q, %q, %q)",
				tt.placement, tt.input, rec.Name, rec.Code, rec.Description, tt.name, tt.code, tt.desc)
		}
	}
}

func TestParseFunctionPlacement(t *testing.T) {
	tests := []struct {
		placement Placement
		input     string
		name      string
		args      string
		code      string
		desc      string
	}{
		{PlacementBest, "func foo() {echo \"foo ${bar:-default}\" }", "foo", "", "echo \"foo ${bar:-default}\"", ""},
		{PlacementBest, "   function foo()\n{echo \"Hello World\"; }", "foo", "", "echo \"Hello World\";", ""},
		{PlacementBest, "# comment 1\n  foo() \n{\necho \"Hello World\"\n\n}", "foo", "", "\necho \"Hello World\"\n", "comment 1"},
		{PlacementBest, "foo() {\n# comment 1\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 1\necho \"Hello World\"\n", "comment 1"},
		{PlacementBest, "# comment 1\n  foo() \n{\n# comment 2\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 2\necho \"Hello World\"\n", "comment 2"},

		{PlacementAbove, "# comment 1\n  foo() \n{\necho \"Hello World\"\n\n}", "foo", "", "\necho \"Hello World\"\n", "comment 1"},
		{PlacementAbove, "foo() {\n# comment 1\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 1\necho \"Hello World\"\n", ""},
		{PlacementAbove, "# comment 1\n  foo() \n{\n# comment 2\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 2\necho \"Hello World\"\n", "comment 1"},

		{PlacementInline, "# comment 1\n  foo() \n{\necho \"Hello World\"\n\n}", "foo", "", "\necho \"Hello World\"\n", ""},
		{PlacementInline, "foo() {\n# comment 1\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 1\necho \"Hello World\"\n", "comment 1"},
		{PlacementInline, "# comment 1\n  foo() \n{\n# comment 2\necho \"Hello World\"\n\n}", "foo", "", "\n# comment 2\necho \"Hello World\"\n", "comment 2"},
	}

	for _, tt := range tests {
		rec := parseOne(t, tt.input, tt.placement)
		if rec.Kind != KindFunction {
			t.Errorf("%s %q: kind = %s, want FUNCTION", tt.placement, tt.input, rec.Kind)
		}
		if rec.Name != tt.name || rec.Args != tt.args || rec.Code != tt.code || rec.Description != tt.desc {
			t.Errorf("%s %q: got (%q, %q, %q, %q), want (%q, %q, %q, %q)",
				tt.placement, tt.input, rec.Name, rec.Args, rec.Code, rec.Description,
				tt.name, tt.args, tt.code, tt.desc)
		}
	}
}

func TestParseFunctionArgsVerbatim(t *testing.T) {
	s := &scanner{src: "foo(one, two) {echo \"Hello World\"\n}"}
	rec, ok := parseFunction(s, Options{Placement: PlacementBest})
	if !ok {
		t.Fatal("parseFunction failed")
	}
	if rec.Args != "one, two" {
		t.Errorf("args = %q, want %q", rec.Args, "one, two")
	}
	if rec.Code != "echo \"Hello World\"" {
		t.Errorf("code = %q", rec.Code)
	}
}

func TestAliasRoundTrip(t *testing.T) {
	rec := parseOne(t, "alias ll='ls -la' # list all\n", PlacementBest)
	want := Record{Kind: KindAlias, Name: "ll", Code: "ls -la", Description: "list all"}
	if rec != want {
		t.Errorf("got %+v, want %+v", rec, want)
	}
}

func TestAliasNameCharset(t *testing.T) {
	// Names stop at the first excluded character; a name containing one
	// of them never matches.
	rec := parseOne(t, "alias gco-main='git checkout main'\n", PlacementBest)
	if rec.Name != "gco-main" {
		t.Errorf("name = %q, want gco-main", rec.Name)
	}

	if got := ParseFile("alias $bad='x'\n", Options{Placement: PlacementBest}); len(got) != 0 {
		t.Errorf("expected no records for invalid alias name, got %+v", got)
	}
}

func TestBareValueStopsAtWhitespace(t *testing.T) {
	rec := parseOne(t, "alias l=ls -la\n", PlacementBest)
	if rec.Code != "ls" {
		t.Errorf("code = %q, want %q", rec.Code, "ls")
	}
}

func TestEmptyQuotedValueDoesNotMatch(t *testing.T) {
	got := ParseFile("alias empty=''\n", Options{Placement: PlacementBest})
	if len(got) != 0 {
		t.Errorf("expected no records for empty quoted value, got %+v", got)
	}
}

func TestEmptyInlineCommentFallsBackToAbove(t *testing.T) {
	rec := parseOne(t, "# above\nalias x='v' #\n", PlacementBest)
	if rec.Description != "above" {
		t.Errorf("description = %q, want %q", rec.Description, "above")
	}
}

func TestStripDescPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DESC:   structured description", "structured description"},
		{"DESCRIPTION: structured description", "structured description"},
		{"desc - structured description", "structured description"},
		{"Description=structured description", "structured description"},
		{"describes the thing", "describes the thing"},
		{"plain comment", "plain comment"},
		{"desc with no separator", "desc with no separator"},
	}
	for _, tt := range tests {
		if got := stripDescPrefix(tt.in); got != tt.want {
			t.Errorf("stripDescPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFunctionBodyCommentStyles(t *testing.T) {
	text := `
no_comment() {echo "Hello World"; }

match_top_comment() {
    # This is a top comment
    echo "Hello World" # This is a comment
    echo "something else"
    # end function
}

no_matching_comments() {
    echo "Hello World";
    # Comment
    echo "something else" # comment
}

structured_comment() {

    # DESC:   This is a structured comment with a description
    # ARGS:   None
    # USAGE:  structured_comment [options]
    echo "Hello World"; # comment
    # comment
    echo "something else"
}
`
	records := ParseFile(text, Options{Placement: PlacementBest})
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(records), records)
	}

	wantDescs := []string{
		"",
		"This is a top comment",
		"",
		"This is a structured comment with a description",
	}
	for i, want := range wantDescs {
		if records[i].Description != want {
			t.Errorf("function %s: description = %q, want %q",
				records[i].Name, records[i].Description, want)
		}
	}
	if records[0].Code != `echo "Hello World";` {
		t.Errorf("no_comment code = %q", records[0].Code)
	}
}
