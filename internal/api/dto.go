package api

import (
	"time"

	"github.com/starford/vaultpress/internal/blog"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/site"
)

// TreeResponse wraps the vault navigation tree.
type TreeResponse struct {
	Tree []*models.VaultNode `json:"tree" validate:"required"`
	// Root is the vault's own index note, kept out of the tree.
	Root *models.FlatItem `json:"root,omitempty"`
}

// ListResponse is one page of the flattened vault.
type ListResponse struct {
	Items      []models.FlatItem `json:"items" validate:"required"`
	Page       int               `json:"page" example:"1" validate:"required"`
	Size       int               `json:"size" example:"20" validate:"required"`
	Total      int               `json:"total" example:"42" validate:"required"`
	TotalPages int               `json:"total_pages" example:"3" validate:"required"`
}

// TagsResponse lists tags, optionally with usage counts.
type TagsResponse struct {
	Tags   []string          `json:"tags,omitempty"`
	Counts []models.TagCount `json:"counts,omitempty"`
}

// NotePage is the rendered note payload.
type NotePage = site.Page

// ResolveResponse is the result of a wiki-link lookup.
type ResolveResponse struct {
	Target string `json:"target" example:"My Note" validate:"required"`
	Route  string `json:"route" example:"/vault/notes/my-note" validate:"required"`
}

// PostSummary is a blog post without its body.
type PostSummary struct {
	Slug        string     `json:"slug" example:"2024/hello-world" validate:"required"`
	Title       string     `json:"title" example:"Hello world" validate:"required"`
	Description string     `json:"description,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
	Draft       bool       `json:"draft,omitempty"`
	Tags        []string   `json:"tags"`
}

// PostDetail is a rendered blog post.
type PostDetail struct {
	PostSummary
	HTML string `json:"html"`
}

// ArchiveYear groups post summaries of one year.
type ArchiveYear struct {
	Year  int           `json:"year" example:"2024" validate:"required"`
	Posts []PostSummary `json:"posts" validate:"required"`
}

func summarize(p blog.Post) PostSummary {
	tags := p.Data.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostSummary{
		Slug:        p.Slug,
		Title:       p.Data.Title,
		Description: p.Data.Description,
		PublishDate: p.Data.PublishDate,
		UpdatedDate: p.Data.UpdatedDate,
		Draft:       p.Data.Draft,
		Tags:        tags,
	}
}

func summarizeAll(posts []blog.Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, summarize(p))
	}
	return out
}
