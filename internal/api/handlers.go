package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/blog"
	"github.com/starford/vaultpress/internal/checksum"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/site"
	"github.com/starford/vaultpress/internal/vault"
)

// Handler holds API route handlers. Every request reads the snapshot current
// at the time it arrives.
type Handler struct {
	holder   *site.Holder
	pageSize int
}

// NewHandler creates a new Handler. pageSize is the default list page size.
func NewHandler(holder *site.Holder, pageSize int) *Handler {
	return &Handler{holder: holder, pageSize: pageSize}
}

// wildcardPath extracts everything after the route prefix. Supports encoded
// slashes (e.g. projects%2Fmy-app).
func wildcardPath(r *http.Request) string {
	raw := strings.Trim(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// wantCounts reports whether ?counts= asks for tag counts.
func wantCounts(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("counts"))
	return v
}

// Tree handles GET /api/vault/tree.
//
//	@Summary		Vault navigation tree
//	@Tags			vault
//	@Produce		json
//	@Success		200		{object}	TreeResponse
//	@Router			/vault/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, _ *http.Request) {
	s := h.holder.Load()
	resp := TreeResponse{Tree: s.Tree}
	if resp.Tree == nil {
		resp.Tree = []*models.VaultNode{}
	}
	if s.Root != nil {
		resp.Root = &models.FlatItem{Title: s.Root.Title, Slug: s.Root.Slug}
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/vault/list.
//
//	@Summary		Flattened vault in navigation order, paginated
//	@Tags			vault
//	@Produce		json
//	@Param			page	query		int		false	"1-based page"
//	@Param			size	query		int		false	"Page size"
//	@Success		200		{object}	ListResponse
//	@Router			/vault/list [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = h.pageSize
	}

	flat := h.holder.Load().Flat
	items, totalPages := vault.Page(flat, page, size)
	if items == nil {
		items = []models.FlatItem{}
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Items:      items,
		Page:       page,
		Size:       size,
		Total:      len(flat),
		TotalPages: totalPages,
	})
}

// Tags handles GET /api/vault/tags.
//
//	@Summary		Distinct lowercase vault tags
//	@Tags			vault
//	@Produce		json
//	@Param			counts	query		bool	false	"Include usage counts"
//	@Success		200		{object}	TagsResponse
//	@Router			/vault/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	s := h.holder.Load()
	if wantCounts(r) {
		writeJSON(w, http.StatusOK, TagsResponse{Counts: s.TagCounts})
		return
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// Note handles GET /api/vault/notes/*.
//
//	@Summary		Rendered note by slug
//	@Tags			vault
//	@Produce		json
//	@Param			slug	path		string	true	"Note slug"
//	@Success		200		{object}	NotePage
//	@Success		304
//	@Failure		404		{object}	errResponse
//	@Router			/vault/notes/{slug} [get]
func (h *Handler) Note(w http.ResponseWriter, r *http.Request) {
	slug := wildcardPath(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	page, err := h.holder.Load().Page(slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("render note failed", slog.String("slug", slug), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	etag := checksum.ETag([]byte(page.HTML))
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Resolve handles GET /api/vault/resolve.
//
//	@Summary		Resolve a wiki-link target to its route
//	@Tags			vault
//	@Produce		json
//	@Param			target	query		string	true	"Wiki-link target, e.g. My Note"
//	@Success		200		{object}	ResolveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/vault/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("target"))
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("target is required"))
		return
	}
	route, ok := h.holder.Load().Links.Resolve(target)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{Target: target, Route: route})
}

// Posts handles GET /api/blog/posts.
//
//	@Summary		Blog posts, newest first
//	@Tags			blog
//	@Produce		json
//	@Success		200		{array}		PostSummary
//	@Router			/blog/posts [get]
func (h *Handler) Posts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summarizeAll(h.holder.Load().Posts))
}

// Post handles GET /api/blog/posts/*.
//
//	@Summary		Rendered blog post by slug
//	@Tags			blog
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	PostDetail
//	@Failure		404		{object}	errResponse
//	@Router			/blog/posts/{slug} [get]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	slug := wildcardPath(r)
	s := h.holder.Load()
	post, err := s.Post(slug)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	html, err := s.Renderer.Render(post.ID, post.Body)
	if err != nil {
		slog.Error("render post failed", slog.String("slug", slug), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PostDetail{PostSummary: summarize(*post), HTML: string(html)})
}

// Archive handles GET /api/blog/archive.
//
//	@Summary		Blog posts grouped by year, most recent first
//	@Tags			blog
//	@Produce		json
//	@Success		200		{array}		ArchiveYear
//	@Router			/blog/archive [get]
func (h *Handler) Archive(w http.ResponseWriter, _ *http.Request) {
	groups := blog.GroupByYear(h.holder.Load().Posts)
	out := make([]ArchiveYear, 0, len(groups))
	for _, g := range groups {
		out = append(out, ArchiveYear{Year: g.Year, Posts: summarizeAll(g.Posts)})
	}
	writeJSON(w, http.StatusOK, out)
}

// BlogTags handles GET /api/blog/tags.
//
//	@Summary		Blog tags
//	@Tags			blog
//	@Produce		json
//	@Param			counts	query		bool	false	"Include usage counts"
//	@Success		200		{object}	TagsResponse
//	@Router			/blog/tags [get]
func (h *Handler) BlogTags(w http.ResponseWriter, r *http.Request) {
	posts := h.holder.Load().Posts
	if wantCounts(r) {
		writeJSON(w, http.StatusOK, TagsResponse{Counts: blog.TagsWithCount(posts)})
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: blog.UniqueTags(posts)})
}
