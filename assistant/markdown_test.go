package assistant

import "testing"

func TestNormalizeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain-untouched", in: "A\n\nB", want: "A\n\nB"},
		{name: "heading", in: "## Today\nplan", want: "Today\nplan"},
		{name: "bold", in: "**important** note", want: "important note"},
		{name: "bold-underscore", in: "__important__ note", want: "important note"},
		{name: "emphasis", in: "*slightly* odd", want: "slightly odd"},
		{name: "bullets", in: "- one\n- two", want: "one\ntwo"},
		{name: "ordered", in: "1. one\n2) two", want: "one\ntwo"},
		{name: "quote", in: "> quoted line", want: "quoted line"},
		{name: "inline-code", in: "run `make` now", want: "run make now"},
		{name: "strike", in: "~~old~~ new", want: "old new"},
		{name: "nested-bold-emphasis", in: "***both*** kinds", want: "both kinds"},
		{name: "doubled-bold", in: "****x****", want: "x"},
		{name: "fence", in: "```go\ncode here\n```", want: "code here"},
		{name: "trim", in: "  \n\nhello\n\n", want: "hello"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeMarkdown(tc.in); got != tc.want {
				t.Errorf("NormalizeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// Normalization must be idempotent: it runs incrementally during streaming
// and once at the end, and already-displayed text must not change.
func TestNormalizeMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"## Today\n- **walk** the dog\n- call *mom*\n\n```sh\nls\n```",
		"plain text\n\nwith paragraphs",
		"1. first\n2. second",
		"nested ***emphasis*** here",
		"****x**** and _____y_____",
	}
	for _, in := range inputs {
		once := NormalizeMarkdown(in)
		twice := NormalizeMarkdown(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}
