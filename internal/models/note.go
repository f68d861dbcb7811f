// Package models defines the domain types for vaultpress.
package models

import (
	"strings"
	"time"
)

// DefaultOrder is the sort weight of entries and folders without an explicit order.
const DefaultOrder = 999

// NoteEntry is one Markdown file of the vault as handed over by the content loader.
// ID is the forward-slash path relative to the vault root, e.g. "projects/foo/bar.md".
type NoteEntry struct {
	ID   string   `json:"id"`
	Data NoteData `json:"data"`
	Body []byte   `json:"-"`
	// Links holds the raw wiki-link targets found in the body.
	Links []string `json:"-"`
	// Heading is the first H1 of the body, kept as page metadata only.
	Heading string `json:"-"`

	// Filled in by collection enrichment.
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
}

// Filename returns the last path segment of the entry id.
func (e *NoteEntry) Filename() string {
	if i := strings.LastIndexByte(e.ID, '/'); i >= 0 {
		return e.ID[i+1:]
	}
	return e.ID
}

// NoteData is the frontmatter payload of a note.
type NoteData struct {
	Title       string     `json:"title,omitempty" yaml:"title"`
	Order       *int       `json:"order,omitempty" yaml:"order"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags"`
	Publish     *bool      `json:"publish,omitempty" yaml:"publish"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Updated     *time.Time `json:"updated,omitempty" yaml:"updated"`
}

// Published reports whether the note should appear in production builds.
// A missing publish flag means published.
func (d NoteData) Published() bool {
	return d.Publish == nil || *d.Publish
}

// OrderOrDefault returns the explicit order or DefaultOrder.
func (d NoteData) OrderOrDefault() int {
	if d.Order == nil {
		return DefaultOrder
	}
	return *d.Order
}

// FileMetadata is a lightweight representation returned by storage list operations.
type FileMetadata struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlatItem is one navigable document in the flattened vault list.
type FlatItem struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// TagCount pairs a tag with the number of entries carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
