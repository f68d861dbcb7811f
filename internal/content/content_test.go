package content

import (
	"log/slog"
	"os"
	"testing"

	"github.com/starford/vaultpress/internal/testutil"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\norder: 3\npublish: false\ntags:\n  - go\n  - Notes\n---\n# Hello\nSee [[Other|alias]].\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Data.Title != "Hello" {
		t.Errorf("title = %q", r.Data.Title)
	}
	if r.Data.Order == nil || *r.Data.Order != 3 {
		t.Errorf("order = %v", r.Data.Order)
	}
	if r.Data.Published() {
		t.Error("expected publish: false")
	}
	if len(r.Data.Tags) != 2 || r.Data.Tags[1] != "Notes" {
		t.Errorf("tags = %v", r.Data.Tags)
	}
	if string(r.Body) != "# Hello\nSee [[Other|alias]].\n" {
		t.Errorf("body = %q", r.Body)
	}
	if len(r.Links) != 1 || r.Links[0] != "Other" {
		t.Errorf("links = %v", r.Links)
	}
	if r.Heading != "Hello" {
		t.Errorf("heading = %q", r.Heading)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Data.Title != "" || r.Data.Order != nil || !r.Data.Published() {
		t.Errorf("expected empty data, got %+v", r.Data)
	}
	if string(r.Body) != string(input) {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_InvalidFrontmatterFallsBack(t *testing.T) {
	input := []byte("---\ntitle: [unclosed\n---\nBody\n")
	r, err := Parse(input)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if r == nil || r.Data.Title != "" {
		t.Fatalf("expected empty payload, got %+v", r)
	}
	if string(r.Body) != string(input) {
		t.Errorf("body = %q, want whole document", r.Body)
	}
}

func TestExtractLinks_DedupAndFragments(t *testing.T) {
	links := extractLinks("[[Note A]] [[Note B|alias]] [[Note A#Part]] [[ ]] [[#Local]]")
	if len(links) != 2 || links[0] != "Note A" || links[1] != "Note B" {
		t.Errorf("links = %v", links)
	}
}

func TestLoader_LoadsSortedAndExcludes(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"b.md":                  "---\ntitle: B\n---\nbody",
		"a/index.md":            "# A",
		"attachments/readme.md": "not a note",
		"broken.md":             "---\norder: [x\n---\ntext",
		"image.png":             "png",
	})
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	entries, err := NewLoader(store, logger, "attachments").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	want := []string{"a/index.md", "b.md", "broken.md"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if entries[1].Data.Title != "B" || string(entries[1].Body) != "body" {
		t.Errorf("b.md parsed as %+v body=%q", entries[1].Data, entries[1].Body)
	}
}
