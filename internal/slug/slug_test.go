package slug

import (
	"strings"
	"testing"
)

func TestSegment_Rules(t *testing.T) {
	cases := map[string]string{
		"My Note":                      "my-note",
		"Hello,  World!":               "hello-world",
		"C++ (Primer)":                 "c-primer",
		"  -- leading & trailing --  ": "leading-trailing",
		"a - b":                        "a-b",
		"Q&A: what's `new`?":           "qa-whats-new",
		"iPad":                         "ipad",
		"v1.2 notes":                   "v1.2-notes",
		"tabs\tand\nnewlines":          "tabs-and-newlines",
		"under_score":                  "under_score",
		"no\u00a0break space":          "no-break-space",
		"thin\u2009\u00a0gap":          "thin-gap",
	}
	for in, want := range cases {
		if got := Segment(in); got != want {
			t.Errorf("Segment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSegment_Idempotent(t *testing.T) {
	inputs := []string{
		"My Note", "--x--", "[Draft] {wip}", "a  --  b", "Ünïcode Title", "#tag", "~/home", "",
		"100% done!", "back\\slash", "a-b-c", "nb\u00a0sp",
	}
	for _, in := range inputs {
		once := Segment(in)
		if twice := Segment(once); twice != once {
			t.Errorf("Segment not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestFromPath_StripsExtension(t *testing.T) {
	cases := map[string]string{
		"projects/index.md":      "projects/index",
		"projects/foo.md":        "projects/foo",
		"Deep Dive/Part One.mdx": "deep-dive/part-one",
		"README.md":              "readme",
		"notes/archive.md.bak":   "notes/archive.md.bak",
		"plain":                  "plain",
	}
	for in, want := range cases {
		got := FromPath(in)
		if got != want {
			t.Errorf("FromPath(%q) = %q, want %q", in, got, want)
		}
		if IsMarkdown(in) && (strings.HasSuffix(got, ".md") || strings.HasSuffix(got, ".mdx")) {
			t.Errorf("FromPath(%q) kept extension: %q", in, got)
		}
	}
}

func TestFromPath_Idempotent(t *testing.T) {
	for _, in := range []string{"A/B C/d!.md", "x/y", "Foo Bar/Baz.mdx"} {
		once := FromPath(in)
		if twice := FromPath(once); twice != once {
			t.Errorf("FromPath not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	if !IsMarkdown("a.md") || !IsMarkdown("dir/b.mdx") {
		t.Error("expected .md and .mdx to be markdown")
	}
	if IsMarkdown("a.MD") || IsMarkdown("image.png") || IsMarkdown("md") {
		t.Error("unexpected markdown match")
	}
}
