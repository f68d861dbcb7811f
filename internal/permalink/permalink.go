// Package permalink maps vault source files to their canonical routes and
// resolves wiki-link targets against that table.
package permalink

import (
	"path"
	"sort"
	"strings"

	"github.com/starford/vaultpress/internal/slug"
)

// Prefix is the route prefix of the vault section.
const Prefix = "/vault/"

// Table maps vault-relative source paths to routes.
type Table struct {
	routes map[string]string
	paths  []string // sorted: shortest first, then lexical
}

// Route computes the canonical route of a vault-relative file path. Markdown
// files route by slug; every other file keeps its path and case.
func Route(rel string) string {
	if slug.IsMarkdown(rel) {
		return Prefix + slug.FromPath(rel)
	}
	return Prefix + rel
}

// Routable reports whether a vault file gets a permalink: Markdown notes and
// images. Extensions match case-sensitively, like the note loader.
func Routable(name string) bool {
	switch path.Ext(name) {
	case ".md", ".mdx", ".jpg", ".jpeg", ".png", ".webp", ".gif", ".svg":
		return true
	}
	return false
}

// Build creates a table for the given vault-relative, forward-slash paths.
// Files that are not Routable are left out.
func Build(files []string) *Table {
	t := &Table{routes: make(map[string]string, len(files))}
	for _, f := range files {
		f = strings.TrimPrefix(strings.ReplaceAll(f, "\\", "/"), "./")
		if !Routable(f) {
			continue
		}
		if _, ok := t.routes[f]; ok {
			continue
		}
		t.routes[f] = Route(f)
		t.paths = append(t.paths, f)
	}
	sort.Slice(t.paths, func(i, j int) bool {
		if len(t.paths[i]) != len(t.paths[j]) {
			return len(t.paths[i]) < len(t.paths[j])
		}
		return t.paths[i] < t.paths[j]
	})
	return t
}

// Len returns the number of files in the table.
func (t *Table) Len() int {
	return len(t.routes)
}

// Resolve finds the route for a wiki-link target such as "My Note",
// "folder/My Note", "My Note.md" or "diagram.png". An exact path match wins;
// otherwise the shortest path whose name or trailing segments match the
// target, ignoring case, is chosen.
func (t *Table) Resolve(target string) (string, bool) {
	target = strings.TrimSpace(target)
	target = strings.TrimPrefix(target, "./")
	target = strings.TrimPrefix(target, "/")
	if target == "" {
		return "", false
	}

	candidates := []string{target}
	if !hasKnownExt(target) {
		candidates = append(candidates, target+".md", target+".mdx")
	}

	for _, c := range candidates {
		if r, ok := t.routes[c]; ok {
			return r, true
		}
	}

	for _, p := range t.paths {
		lp := strings.ToLower(p)
		for _, c := range candidates {
			lc := strings.ToLower(c)
			if lp == lc || strings.HasSuffix(lp, "/"+lc) {
				return t.routes[p], true
			}
		}
	}
	return "", false
}

func hasKnownExt(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdx", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".pdf":
		return true
	}
	return false
}
