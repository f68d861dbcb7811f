// Package names recovers human-chosen casing for vault folders and notes.
//
// An Index is built by a single walk of the vault root and never changes
// afterwards; callers that need fresher data build a new one.
package names

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/vaultpress/internal/slug"
)

// Index maps a normalized slug path ("projects/my-app") to the original
// segment name of its last element ("My App").
type Index struct {
	names map[string]string
}

// NewIndex wraps a prebuilt mapping. The map is copied.
func NewIndex(m map[string]string) *Index {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Index{names: cp}
}

// Build walks root once and records every directory and Markdown file.
// Dot-prefixed files and directories are skipped. A missing root or a read
// error yields an empty (or partial) index and a warning, never an error.
func Build(root string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{names: make(map[string]string)}

	info, err := os.Stat(root)
	if err != nil {
		logger.Warn("names: vault root unavailable", slog.String("root", root), slog.String("error", err.Error()))
		return ix
	}
	if !info.IsDir() {
		logger.Warn("names: vault root is not a directory", slog.String("root", root))
		return ix
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("names: walk failed", slog.String("path", p), slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !slug.IsMarkdown(name) {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		key := slug.FromPath(filepath.ToSlash(rel))
		if d.IsDir() {
			ix.names[key] = name
		} else {
			ix.names[key] = slug.StripExt(name)
		}
		return nil
	})
	if err != nil {
		logger.Warn("names: walk aborted", slog.String("root", root), slog.String("error", err.Error()))
	}

	logger.Debug("names: index built", slog.String("root", root), slog.Int("entries", len(ix.names)))
	return ix
}

// Lookup returns the original name recorded for a normalized path.
func (ix *Index) Lookup(normalizedPath string) (string, bool) {
	if ix == nil {
		return "", false
	}
	name, ok := ix.names[normalizedPath]
	return name, ok
}

// Len returns the number of recorded paths.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.names)
}
