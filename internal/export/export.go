// Package export writes a snapshot out as a static site: HTML pages, JSON
// documents mirroring the API, and the attachment files.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultpress/internal/blog"
	"github.com/starford/vaultpress/internal/checksum"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/site"
	"github.com/starford/vaultpress/internal/storage"
)

// DefaultConcurrency bounds the number of pages rendered at once.
const DefaultConcurrency = 8

// Output is where the static site is written. Read lets unchanged files be
// skipped.
type Output interface {
	storage.Writer
	Read(path string) ([]byte, error)
}

// Options configures an export run.
type Options struct {
	Meta site.Meta
	// AttachmentsDir is the vault-relative attachments directory copied to
	// vault/attachments/.
	AttachmentsDir string
	Concurrency    int
}

// Stats reports what an export run did.
type Stats struct {
	Pages     int
	Documents int
	Files     int
	Unchanged int
}

// Exporter renders snapshots into an Output.
type Exporter struct {
	src    storage.Provider
	out    Output
	opts   Options
	logger *slog.Logger

	written   atomic.Int64
	unchanged atomic.Int64
}

// New creates an exporter reading vault files from src and writing to out.
func New(src storage.Provider, out Output, opts Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Exporter{src: src, out: out, opts: opts, logger: logger}
}

// Run exports s. It stops at the first failed write and returns its error.
func (e *Exporter) Run(ctx context.Context, s *site.Snapshot) (Stats, error) {
	var stats Stats
	e.written.Store(0)
	e.unchanged.Store(0)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i := range s.Entries {
		entry := &s.Entries[i]
		stats.Pages++
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return e.page(s, entry)
		})
	}

	docs := e.documents(s)
	for name, v := range docs {
		g.Go(func() error {
			return e.writeJSON(name, v)
		})
	}
	stats.Documents = len(docs)

	files, err := e.attachments()
	if err != nil {
		return stats, err
	}
	for _, f := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := e.src.Read(f)
			if err != nil {
				return err
			}
			rel := strings.TrimPrefix(f, strings.Trim(e.opts.AttachmentsDir, "/")+"/")
			return e.write(path.Join("vault", "attachments", rel), data)
		})
	}
	stats.Files = len(files)

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("export: %w", err)
	}
	stats.Unchanged = int(e.unchanged.Load())

	e.logger.Info("export: done",
		slog.Int("pages", stats.Pages),
		slog.Int("documents", stats.Documents),
		slog.Int("files", stats.Files),
		slog.Int64("written", e.written.Load()),
		slog.Int("unchanged", stats.Unchanged))
	return stats, nil
}

// page writes the HTML page and the JSON document of one note.
func (e *Exporter) page(s *site.Snapshot, entry *models.NoteEntry) error {
	p, err := s.Page(entry.Slug)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.WriteHTML(&buf, e.opts.Meta, p); err != nil {
		return err
	}
	htmlPath := path.Join("vault", entry.Slug, "index.html")
	if s.Root != nil && entry.ID == s.Root.ID {
		htmlPath = path.Join("vault", "index.html")
	}
	if err := e.write(htmlPath, buf.Bytes()); err != nil {
		return err
	}
	return e.writeJSON(path.Join("api", "vault", "notes", entry.Slug+".json"), p)
}

// documents returns the listing JSON files keyed by output path.
func (e *Exporter) documents(s *site.Snapshot) map[string]any {
	return map[string]any{
		"api/vault/tree.json":   s.Tree,
		"api/vault/list.json":   s.Flat,
		"api/vault/tags.json":   s.TagCounts,
		"api/blog/posts.json":   s.Posts,
		"api/blog/archive.json": blog.GroupByYear(s.Posts),
		"api/blog/tags.json":    blog.TagsWithCount(s.Posts),
	}
}

// attachments lists the source paths of every file in the attachments
// directory.
func (e *Exporter) attachments() ([]string, error) {
	dir := strings.Trim(e.opts.AttachmentsDir, "/")
	if dir == "" {
		return nil, nil
	}
	metas, err := e.src.ListAll(dir)
	if err != nil {
		e.logger.Warn("export: no attachments directory", slog.String("dir", dir), slog.String("error", err.Error()))
		return nil, nil
	}
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.Path)
	}
	return out, nil
}

func (e *Exporter) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return e.write(name, append(data, '\n'))
}

// write stores content unless the output already holds identical bytes.
func (e *Exporter) write(name string, content []byte) error {
	if prev, err := e.out.Read(name); err == nil && checksum.Sum(prev) == checksum.Sum(content) {
		e.unchanged.Add(1)
		return nil
	}
	if err := e.out.Write(name, content); err != nil {
		return err
	}
	e.written.Add(1)
	e.logger.Debug("export: wrote", slog.String("path", name))
	return nil
}
