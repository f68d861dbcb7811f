package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/site"
)

// PageHandler serves the HTML vault section: rendered notes and attachments.
type PageHandler struct {
	holder      *site.Holder
	meta        site.Meta
	attachments *AttachmentHandler
}

// NewPageHandler creates a handler rendering pages from holder's snapshot.
func NewPageHandler(holder *site.Holder, meta site.Meta, attachmentsDir string) *PageHandler {
	return &PageHandler{
		holder:      holder,
		meta:        meta,
		attachments: NewAttachmentHandler(attachmentsDir),
	}
}

// Index handles GET /vault/, rendering the vault's root index note.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	s := h.holder.Load()
	if s.Root == nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, s, s.Root.Slug)
}

// Serve handles GET /vault/*. Paths under attachments/ are served as files,
// everything else as a rendered note.
func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	p := wildcardPath(r)
	if name, ok := strings.CutPrefix(p, attachmentPrefix); ok {
		h.attachments.Serve(w, r, name)
		return
	}
	if p == "" {
		h.Index(w, r)
		return
	}
	h.render(w, r, h.holder.Load(), p)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, s *site.Snapshot, slug string) {
	page, err := s.Page(slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			slog.Error("render page failed", slog.String("slug", slug), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	var buf bytes.Buffer
	if err := s.WriteHTML(&buf, h.meta, page); err != nil {
		slog.Error("write page failed", slog.String("slug", slug), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
