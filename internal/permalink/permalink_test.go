package permalink

import "testing"

func testTable() *Table {
	return Build([]string{
		"Projects/My App.md",
		"Projects/Archive/My App.md",
		"Daily/2024-01-01.md",
		"index.md",
		"attachments/Diagram One.png",
		"notes/C++ Tips.mdx",
		"attachments/Budget.xlsx",
		"notes/todo.txt",
	})
}

func TestRoute(t *testing.T) {
	cases := map[string]string{
		"Projects/My App.md":          "/vault/projects/my-app",
		"notes/C++ Tips.mdx":          "/vault/notes/c-tips",
		"attachments/Diagram One.png": "/vault/attachments/Diagram One.png",
	}
	for in, want := range cases {
		if got := Route(in); got != want {
			t.Errorf("Route(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild_KeepsOnlyNotesAndImages(t *testing.T) {
	tbl := testTable()
	if tbl.Len() != 6 {
		t.Errorf("Len = %d, want 6", tbl.Len())
	}
	for _, in := range []string{"Budget.xlsx", "attachments/Budget.xlsx", "todo.txt"} {
		if r, ok := tbl.Resolve(in); ok {
			t.Errorf("Resolve(%q) = %q, want miss", in, r)
		}
	}
	r, ok := tbl.Resolve("Daily/2024-01-01.md")
	if !ok || r != "/vault/daily/2024-01-01" {
		t.Errorf("exact Resolve = %q, %v", r, ok)
	}
}

func TestRoutable(t *testing.T) {
	for name, want := range map[string]bool{
		"a.md": true, "a.mdx": true, "pic.jpg": true, "logo.svg": true,
		"a.MD": false, "doc.pdf": false, "data.csv": false, "noext": false,
	} {
		if got := Routable(name); got != want {
			t.Errorf("Routable(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	tbl := testTable()
	cases := map[string]string{
		"My App":                  "/vault/projects/my-app",
		"Projects/Archive/My App": "/vault/projects/archive/my-app",
		"archive/my app":          "/vault/projects/archive/my-app",
		"2024-01-01":              "/vault/daily/2024-01-01",
		"Diagram One.png":         "/vault/attachments/Diagram One.png",
		"c++ tips":                "/vault/notes/c-tips",
		"index":                   "/vault/index",
		"./Projects/My App.md":    "/vault/projects/my-app",
	}
	for in, want := range cases {
		got, ok := tbl.Resolve(in)
		if !ok || got != want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestResolve_Missing(t *testing.T) {
	tbl := testTable()
	for _, in := range []string{"", "Nope", "App"} {
		if r, ok := tbl.Resolve(in); ok {
			t.Errorf("Resolve(%q) = %q, want miss", in, r)
		}
	}
}
