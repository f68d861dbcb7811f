// Package vault turns the raw note collection into the navigation tree and
// its derived views (flat list, tag index).
package vault

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/names"
	"github.com/starford/vaultpress/internal/slug"
)

var folderNoteRe = regexp.MustCompile(`(?i)^(index|readme)\.(md|mdx)$`)

// IsFolderNote reports whether filename supplies content for its enclosing folder.
func IsFolderNote(filename string) bool {
	return folderNoteRe.MatchString(filename)
}

// Options controls collection filtering.
type Options struct {
	// Production hides notes with publish: false.
	Production bool
}

// Visible applies the publish filter. Unpublished notes are only dropped in
// production; development builds see everything.
func Visible(e models.NoteEntry, opts Options) bool {
	return !opts.Production || e.Data.Published()
}

// Enrich filters entries by publish status and fills in Slug and Title.
// Input entries are not modified.
//
// Two distinct ids that normalise to the same slug cannot both be routed, so
// they fail the build with an error wrapping apperr.ErrConflict.
func Enrich(entries []models.NoteEntry, ix *names.Index, opts Options) ([]models.NoteEntry, error) {
	out := make([]models.NoteEntry, 0, len(entries))
	owners := make(map[string]string, len(entries))

	for _, e := range entries {
		if !Visible(e, opts) {
			continue
		}
		e.ID = strings.ReplaceAll(e.ID, "\\", "/")
		e.Slug = slug.FromPath(e.ID)
		if prev, ok := owners[e.Slug]; ok {
			return nil, fmt.Errorf("vault: slug %q produced by both %q and %q: %w", e.Slug, prev, e.ID, apperr.ErrConflict)
		}
		owners[e.Slug] = e.ID
		e.Title = resolveTitle(e, ix)
		out = append(out, e)
	}
	return out, nil
}

// resolveTitle picks the display title of an entry: the frontmatter title,
// else the original-cased name of the file (or, for folder notes, of the
// enclosing folder), else a heuristic title from the filename.
func resolveTitle(e models.NoteEntry, ix *names.Index) string {
	if e.Data.Title != "" {
		return e.Data.Title
	}
	filename := e.Filename()
	if IsFolderNote(filename) {
		if i := strings.LastIndexByte(e.ID, '/'); i >= 0 {
			dir := e.ID[:i]
			return ix.Title(slug.FromPath(dir), lastSegment(dir))
		}
	}
	return ix.Title(e.Slug, slug.StripExt(filename))
}

func lastSegment(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
