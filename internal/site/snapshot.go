// Package site assembles the vault pipeline into immutable snapshots and
// keeps the current one available to readers.
package site

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/blog"
	"github.com/starford/vaultpress/internal/content"
	"github.com/starford/vaultpress/internal/markdown"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/names"
	"github.com/starford/vaultpress/internal/permalink"
	"github.com/starford/vaultpress/internal/storage"
	"github.com/starford/vaultpress/internal/vault"
)

// Options describes where a snapshot reads its sources from.
type Options struct {
	VaultRoot string
	// AttachmentsDir is vault-relative; files below it are never notes.
	AttachmentsDir string
	// BlogRoot is optional. An empty value disables the blog collection.
	BlogRoot   string
	Production bool
}

// Snapshot is one consistent build of the vault and blog. It is never
// mutated after Build returns and may be shared freely.
type Snapshot struct {
	Names     *names.Index
	Entries   []models.NoteEntry
	Tree      []*models.VaultNode
	Flat      []models.FlatItem
	Tags      []string
	TagCounts []models.TagCount
	Links     *permalink.Table
	Renderer  *markdown.Renderer
	Root      *models.NoteEntry
	// Posts are filtered for the environment and sorted newest first.
	Posts     []blog.Post
	Backlinks map[string][]models.FlatItem
	BuiltAt   time.Time

	bySlug map[string]int
}

// Page is a rendered note together with its navigation context.
type Page struct {
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	HTML      string            `json:"html"`
	Heading   string            `json:"heading,omitempty"`
	Tags      []string          `json:"tags"`
	Prev      *models.FlatItem  `json:"prev"`
	Next      *models.FlatItem  `json:"next"`
	Backlinks []models.FlatItem `json:"backlinks,omitempty"`
	Trail     []models.FlatItem `json:"trail,omitempty"`
	Data      models.NoteData   `json:"data"`
}

// Build runs the full pipeline: name index, content loading, enrichment,
// tree, derived views, permalinks and blog posts.
func Build(opts Options, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	store, err := storage.NewFS(opts.VaultRoot)
	if err != nil {
		return nil, fmt.Errorf("site: open vault: %w", err)
	}

	ix := names.Build(store.Root(), logger)

	raw, err := content.NewLoader(store, logger, opts.AttachmentsDir).Load()
	if err != nil {
		return nil, fmt.Errorf("site: load notes: %w", err)
	}
	vopts := vault.Options{Production: opts.Production}
	entries, err := vault.Enrich(raw, ix, vopts)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	files, err := store.ListAll("")
	if err != nil {
		return nil, fmt.Errorf("site: list files: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if permalink.Routable(f.Path) {
			paths = append(paths, f.Path)
		}
	}
	table := permalink.Build(paths)

	tree := vault.BuildTree(entries, ix)
	s := &Snapshot{
		Names:     ix,
		Entries:   entries,
		Tree:      tree,
		Flat:      vault.FlatList(tree),
		Tags:      vault.Tags(entries, vopts),
		TagCounts: vault.TagsWithCount(entries, vopts),
		Links:     table,
		Renderer:  markdown.NewRenderer(table, logger),
		Root:      vault.RootNote(entries),
		BuiltAt:   time.Now(),
		bySlug:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		s.bySlug[e.Slug] = i
	}
	s.Backlinks = s.backlinks()

	if opts.BlogRoot != "" {
		posts, err := loadBlog(opts.BlogRoot, opts.Production, logger)
		if err != nil {
			return nil, err
		}
		s.Posts = posts
	}

	logger.Info("site: snapshot built",
		slog.Int("notes", len(entries)),
		slog.Int("permalinks", table.Len()),
		slog.Int("posts", len(s.Posts)),
		slog.Duration("took", time.Since(start)))
	return s, nil
}

func loadBlog(root string, production bool, logger *slog.Logger) ([]blog.Post, error) {
	store, err := storage.NewFS(root)
	if err != nil {
		logger.Warn("site: blog directory unavailable", slog.String("path", root), slog.String("error", err.Error()))
		return nil, nil
	}
	posts, err := blog.Load(store, logger)
	if err != nil {
		return nil, fmt.Errorf("site: load blog: %w", err)
	}
	return blog.SortByDate(blog.Collection(posts, production)), nil
}

// backlinks maps each note slug to the notes whose wiki-links resolve to it.
func (s *Snapshot) backlinks() map[string][]models.FlatItem {
	out := make(map[string][]models.FlatItem)
	for _, e := range s.Entries {
		seen := make(map[string]bool)
		for _, target := range e.Links {
			route, ok := s.Links.Resolve(target)
			if !ok {
				continue
			}
			dst := strings.TrimPrefix(route, permalink.Prefix)
			if _, isNote := s.bySlug[dst]; !isNote || dst == e.Slug || seen[dst] {
				continue
			}
			seen[dst] = true
			out[dst] = append(out[dst], models.FlatItem{Title: e.Title, Slug: e.Slug})
		}
	}
	return out
}

// Note returns the entry published under slug.
func (s *Snapshot) Note(slug string) (*models.NoteEntry, error) {
	i, ok := s.bySlug[strings.Trim(slug, "/")]
	if !ok {
		return nil, fmt.Errorf("site: note %q: %w", slug, apperr.ErrNotFound)
	}
	return &s.Entries[i], nil
}

// Page renders the note published under slug.
func (s *Snapshot) Page(slug string) (*Page, error) {
	e, err := s.Note(slug)
	if err != nil {
		return nil, err
	}
	html, err := s.Renderer.Render(e.ID, e.Body)
	if err != nil {
		return nil, err
	}
	prev, next := vault.Neighbours(s.Flat, e.Slug)
	p := &Page{
		Title:     e.Title,
		Slug:      e.Slug,
		HTML:      string(html),
		Heading:   e.Heading,
		Tags:      e.Data.Tags,
		Prev:      prev,
		Next:      next,
		Backlinks: s.Backlinks[e.Slug],
		Data:      e.Data,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	for _, n := range vault.Trail(s.Tree, e.Slug) {
		p.Trail = append(p.Trail, models.FlatItem{Title: n.Title, Slug: n.Slug})
	}
	return p, nil
}

// Post returns the blog post published under slug.
func (s *Snapshot) Post(slug string) (*blog.Post, error) {
	slug = strings.Trim(slug, "/")
	for i := range s.Posts {
		if s.Posts[i].Slug == slug {
			return &s.Posts[i], nil
		}
	}
	return nil, fmt.Errorf("site: post %q: %w", slug, apperr.ErrNotFound)
}
