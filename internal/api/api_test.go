package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultpress/internal/site"
	"github.com/starford/vaultpress/internal/testutil"
)

// testEnv builds a snapshot over a temp vault and blog and returns the full
// router (API under /api, pages under /vault).
func testEnv(t *testing.T) http.Handler {
	t.Helper()
	vaultDir, _ := testutil.TestVault(t, map[string]string{
		"index.md":                     "# Welcome",
		"Projects/README.md":           "---\norder: 1\n---\nSee [[My App|the app]].",
		"Projects/My App.md":           "---\ntags: [Go, CLI]\n---\n# My App\n![[Logo.png]]",
		"Guides/Getting Started.md":    "---\ntags: [go]\n---\nStart [here](../Projects/My%20App.md).",
		"attachments/Logo.png":         "\x89PNG",
		"attachments/docs/manual.pdf":  "%PDF",
		"attachments/Diagram.webp":     "RIFF",
		"attachments/notes/skipped.md": "not a note",
	})
	blogDir := t.TempDir()
	testutil.WriteFiles(t, blogDir, map[string]string{
		"hello.md": "---\ntitle: Hello\npublishDate: 2023-05-01\ntags: [intro, go]\n---\nHi *there*",
		"later.md": "---\ntitle: Later\npublishDate: 2024-02-01\ntags: [go]\n---\nLater",
		"draft.md": "---\ntitle: Draft\npublishDate: 2024-03-01\ndraft: true\n---\nWip",
	})

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	snap, err := site.Build(site.Options{
		VaultRoot:      vaultDir,
		AttachmentsDir: "attachments",
		BlogRoot:       blogDir,
		Production:     true,
	}, logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	holder := site.NewHolder(snap)

	r := chi.NewRouter()
	r.Mount("/api", NewRouter(holder, 2))
	r.Mount("/vault", NewPageRouter(holder, site.Meta{Title: "Test Site", Author: "Tester"}, filepath.Join(vaultDir, "attachments")))
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestTree(t *testing.T) {
	w := get(t, testEnv(t), "/api/vault/tree")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Tree []struct {
			Title    string `json:"title"`
			Slug     string `json:"slug"`
			Kind     string `json:"kind"`
			Children []struct {
				Title string `json:"title"`
			} `json:"children"`
		} `json:"tree"`
		Root *struct {
			Slug string `json:"slug"`
		} `json:"root"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tree) != 2 {
		t.Fatalf("root nodes = %d, body = %s", len(resp.Tree), w.Body.String())
	}
	if resp.Tree[0].Title != "Projects" || resp.Tree[0].Slug != "projects/readme" {
		t.Errorf("first node = %+v", resp.Tree[0])
	}
	if resp.Tree[1].Title != "Guides" || len(resp.Tree[1].Children) != 1 || resp.Tree[1].Children[0].Title != "Getting Started" {
		t.Errorf("second node = %+v", resp.Tree[1])
	}
	if resp.Root == nil || resp.Root.Slug != "index" {
		t.Errorf("root = %+v", resp.Root)
	}
}

func TestList_Pagination(t *testing.T) {
	h := testEnv(t)

	first := decode[ListResponse](t, get(t, h, "/api/vault/list"))
	if first.Size != 2 || first.Total != 3 || first.TotalPages != 2 || len(first.Items) != 2 {
		t.Fatalf("first page = %+v", first)
	}
	if first.Items[0].Slug != "projects/readme" || first.Items[1].Slug != "projects/my-app" {
		t.Errorf("items = %+v", first.Items)
	}

	second := decode[ListResponse](t, get(t, h, "/api/vault/list?page=2&size=2"))
	if len(second.Items) != 1 || second.Items[0].Slug != "guides/getting-started" {
		t.Errorf("second page = %+v", second)
	}

	empty := decode[ListResponse](t, get(t, h, "/api/vault/list?page=9"))
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Errorf("out of range page = %+v", empty)
	}
}

func TestTags(t *testing.T) {
	h := testEnv(t)

	tags := decode[TagsResponse](t, get(t, h, "/api/vault/tags"))
	if strings.Join(tags.Tags, ",") != "go,cli" {
		t.Errorf("tags = %v", tags.Tags)
	}

	counts := decode[TagsResponse](t, get(t, h, "/api/vault/tags?counts=1"))
	if len(counts.Counts) != 2 || counts.Counts[0].Tag != "go" || counts.Counts[0].Count != 2 {
		t.Errorf("counts = %+v", counts.Counts)
	}
}

func TestNote(t *testing.T) {
	h := testEnv(t)

	w := get(t, h, "/api/vault/notes/projects/my-app")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	page := decode[NotePage](t, w)
	if page.Title != "My App" || page.Slug != "projects/my-app" {
		t.Errorf("page = %+v", page)
	}
	if page.Prev == nil || page.Prev.Slug != "projects/readme" || page.Next == nil || page.Next.Slug != "guides/getting-started" {
		t.Errorf("prev/next = %+v / %+v", page.Prev, page.Next)
	}
	if !strings.Contains(page.HTML, `src="/vault/attachments/Logo.png"`) {
		t.Errorf("html = %s", page.HTML)
	}
	if len(page.Backlinks) != 1 || page.Backlinks[0].Slug != "projects/readme" {
		t.Errorf("backlinks = %+v", page.Backlinks)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	req := httptest.NewRequest(http.MethodGet, "/api/vault/notes/projects/my-app", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("conditional get = %d, want 304", w.Code)
	}
}

func TestNote_RelativeLinkRewritten(t *testing.T) {
	page := decode[NotePage](t, get(t, testEnv(t), "/api/vault/notes/guides/getting-started"))
	if !strings.Contains(page.HTML, `href="../projects/my-app"`) {
		t.Errorf("html = %s", page.HTML)
	}
}

func TestNote_NotFound(t *testing.T) {
	w := get(t, testEnv(t), "/api/vault/notes/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResolve(t *testing.T) {
	h := testEnv(t)

	res := decode[ResolveResponse](t, get(t, h, "/api/vault/resolve?target=getting%20started"))
	if res.Route != "/vault/guides/getting-started" {
		t.Errorf("route = %q", res.Route)
	}
	if w := get(t, h, "/api/vault/resolve?target=ghost"); w.Code != http.StatusNotFound {
		t.Errorf("unknown target = %d, want 404", w.Code)
	}
	if w := get(t, h, "/api/vault/resolve"); w.Code != http.StatusBadRequest {
		t.Errorf("missing target = %d, want 400", w.Code)
	}
}

func TestBlog(t *testing.T) {
	h := testEnv(t)

	posts := decode[[]PostSummary](t, get(t, h, "/api/blog/posts"))
	if len(posts) != 2 || posts[0].Slug != "later" || posts[1].Slug != "hello" {
		t.Fatalf("posts = %+v", posts)
	}

	archive := decode[[]ArchiveYear](t, get(t, h, "/api/blog/archive"))
	if len(archive) != 2 || archive[0].Year != 2024 || archive[1].Year != 2023 {
		t.Errorf("archive = %+v", archive)
	}

	tags := decode[TagsResponse](t, get(t, h, "/api/blog/tags?counts=true"))
	if len(tags.Counts) != 2 || tags.Counts[0].Tag != "go" || tags.Counts[0].Count != 2 {
		t.Errorf("blog tags = %+v", tags.Counts)
	}

	post := decode[PostDetail](t, get(t, h, "/api/blog/posts/hello"))
	if post.Title != "Hello" || !strings.Contains(post.HTML, "<em>there</em>") {
		t.Errorf("post = %+v", post)
	}
	if w := get(t, h, "/api/blog/posts/draft"); w.Code != http.StatusNotFound {
		t.Errorf("draft post = %d, want 404", w.Code)
	}
}

func TestVaultPage_HTML(t *testing.T) {
	h := testEnv(t)

	w := get(t, h, "/vault/projects/my-app")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"<title>My App • Test Site</title>", `href="/vault/guides/getting-started"`, "© Tester"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if n := strings.Count(body, "<h1"); n != 1 {
		t.Errorf("page has %d <h1> elements, want 1 from the note body", n)
	}
	readme := get(t, h, "/vault/projects/readme").Body.String()
	if !strings.Contains(readme, "<h1>Projects</h1>") {
		t.Errorf("note without heading should get a title heading:\n%s", readme)
	}

	if w := get(t, h, "/vault/"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Welcome") {
		t.Errorf("vault index = %d", w.Code)
	}
	if w := get(t, h, "/vault/missing/page"); w.Code != http.StatusNotFound {
		t.Errorf("missing page = %d, want 404", w.Code)
	}
}

func TestAttachments(t *testing.T) {
	h := testEnv(t)

	cases := []struct {
		path   string
		status int
		mime   string
	}{
		{"/vault/attachments/Logo.png", http.StatusOK, "image/png"},
		{"/vault/attachments/Diagram.webp", http.StatusOK, "image/webp"},
		{"/vault/attachments/docs/manual.pdf", http.StatusOK, "application/octet-stream"},
		{"/vault/attachments/logo.png", http.StatusNotFound, ""},
		{"/vault/attachments/missing.gif", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		w := get(t, h, tc.path)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.path, w.Code, tc.status)
			continue
		}
		if tc.mime != "" && w.Header().Get("Content-Type") != tc.mime {
			t.Errorf("%s: content type = %q, want %q", tc.path, w.Header().Get("Content-Type"), tc.mime)
		}
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.gif":  "image/gif",
		"a.svg":  "image/svg+xml",
		"a.bin":  "application/octet-stream",
		"noext":  "application/octet-stream",
	}
	for name, want := range cases {
		if got := mimeType(name); got != want {
			t.Errorf("mimeType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSafeName_RejectsTraversal(t *testing.T) {
	h := NewAttachmentHandler(t.TempDir())
	for _, name := range []string{"", "../secret", "a/../../b"} {
		if _, err := h.safeName(name); err == nil {
			t.Errorf("safeName(%q) accepted", name)
		}
	}
}
