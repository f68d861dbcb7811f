// Package api implements the vaultpress HTTP surface using chi.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultpress/internal/site"
)

// NewRouter creates a chi router with all JSON API routes. It is mounted
// under /api.
func NewRouter(holder *site.Holder, pageSize int) chi.Router {
	h := NewHandler(holder, pageSize)

	r := chi.NewRouter()

	r.Route("/vault", func(r chi.Router) {
		r.Get("/tree", h.Tree)
		r.Get("/list", h.List)
		r.Get("/tags", h.Tags)
		r.Get("/notes/*", h.Note)
		r.Get("/resolve", h.Resolve)
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/posts", h.Posts)
		r.Get("/posts/*", h.Post)
		r.Get("/archive", h.Archive)
		r.Get("/tags", h.BlogTags)
	})

	return r
}

// NewPageRouter serves rendered vault pages and attachments. It is mounted
// under /vault.
func NewPageRouter(holder *site.Holder, meta site.Meta, attachmentsDir string) chi.Router {
	h := NewPageHandler(holder, meta, attachmentsDir)

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/*", h.Serve)
	return r
}
