package content

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/storage"
)

// Loader reads every note of a vault into NoteEntry values.
type Loader struct {
	store   storage.Provider
	logger  *slog.Logger
	exclude []string
}

// NewLoader creates a loader over store. Paths under any of the exclude
// directories (vault-relative, e.g. "attachments") are not treated as notes.
func NewLoader(store storage.Provider, logger *slog.Logger, exclude ...string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	var dirs []string
	for _, d := range exclude {
		d = strings.Trim(d, "/")
		if d != "" {
			dirs = append(dirs, d+"/")
		}
	}
	return &Loader{store: store, logger: logger, exclude: dirs}
}

// Load returns all notes sorted by id. Unreadable files are skipped with a
// warning; a listing failure is returned as an error.
func (l *Loader) Load() ([]models.NoteEntry, error) {
	metas, err := l.store.List("")
	if err != nil {
		return nil, fmt.Errorf("content: list vault: %w", err)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })

	entries := make([]models.NoteEntry, 0, len(metas))
	for _, m := range metas {
		if l.excluded(m.Path) {
			continue
		}
		data, err := l.store.Read(m.Path)
		if err != nil {
			l.logger.Warn("content: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		res, err := Parse(data)
		if err != nil {
			l.logger.Warn("content: invalid frontmatter, ignoring it",
				slog.String("path", m.Path), slog.String("error", err.Error()))
		}
		entries = append(entries, models.NoteEntry{
			ID:      m.Path,
			Data:    res.Data,
			Body:    res.Body,
			Links:   res.Links,
			Heading: res.Heading,
		})
	}
	l.logger.Debug("content: loaded", slog.Int("notes", len(entries)))
	return entries, nil
}

func (l *Loader) excluded(p string) bool {
	for _, d := range l.exclude {
		if strings.HasPrefix(p, d) {
			return true
		}
	}
	return false
}
