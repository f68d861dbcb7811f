// Package blog loads blog posts and derives the archive views (date order,
// year grouping, tag clouds).
package blog

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/starford/vaultpress/internal/content"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/slug"
	"github.com/starford/vaultpress/internal/storage"
	"github.com/starford/vaultpress/internal/taxonomy"
)

// PostData is the frontmatter payload of a blog post.
type PostData struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description"`
	PublishDate *time.Time `json:"publishDate,omitempty" yaml:"publishDate"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty" yaml:"updatedDate"`
	Draft       bool       `json:"draft,omitempty" yaml:"draft"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags"`
}

// Date returns the updated date, falling back to the publish date. The zero
// time is returned when neither is set.
func (d PostData) Date() time.Time {
	switch {
	case d.UpdatedDate != nil:
		return *d.UpdatedDate
	case d.PublishDate != nil:
		return *d.PublishDate
	}
	return time.Time{}
}

// Post is one blog article.
type Post struct {
	ID   string   `json:"id"`
	Slug string   `json:"slug"`
	Data PostData `json:"data"`
	Body []byte   `json:"-"`
}

// YearGroup holds the posts dated within one calendar year.
type YearGroup struct {
	Year  int    `json:"year"`
	Posts []Post `json:"posts"`
}

// Load reads every Markdown post from store. Posts with unparsable
// frontmatter are skipped with a warning since they have no usable title or
// date. The result is sorted by id.
func Load(store storage.Provider, logger *slog.Logger) ([]Post, error) {
	if logger == nil {
		logger = slog.Default()
	}
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("blog: list posts: %w", err)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })

	posts := make([]Post, 0, len(metas))
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("blog: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		var fm PostData
		body, err := content.ParseInto(data, &fm)
		if err != nil {
			logger.Warn("blog: invalid frontmatter, skipping post", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		posts = append(posts, Post{
			ID:   m.Path,
			Slug: slug.FromPath(m.Path),
			Data: fm,
			Body: body,
		})
	}
	return posts, nil
}

// Collection drops draft posts in production. Development keeps them.
func Collection(posts []Post, production bool) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if production && p.Data.Draft {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortByDate returns a copy of posts ordered newest first by updated date,
// falling back to the publish date. Undated posts sort last.
func SortByDate(posts []Post) []Post {
	out := append([]Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Data.Date().After(out[j].Data.Date())
	})
	return out
}

// GroupByYear buckets posts by the year of their effective date, most recent
// year first. Posts keep their relative order within a year. Undated posts
// are left out.
func GroupByYear(posts []Post) []YearGroup {
	idx := make(map[int]int)
	var groups []YearGroup
	for _, p := range posts {
		d := p.Data.Date()
		if d.IsZero() {
			continue
		}
		y := d.Year()
		i, ok := idx[y]
		if !ok {
			i = len(groups)
			idx[y] = i
			groups = append(groups, YearGroup{Year: y})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Year > groups[j].Year })
	return groups
}

func allTags(posts []Post) []string {
	var tags []string
	for _, p := range posts {
		tags = append(tags, p.Data.Tags...)
	}
	return tags
}

// UniqueTags lists every tag once, in first-seen order. Drafts are not
// filtered here; pass the result of Collection.
func UniqueTags(posts []Post) []string {
	return taxonomy.Unique(allTags(posts))
}

// TagsWithCount counts tag usage, most used first.
func TagsWithCount(posts []Post) []models.TagCount {
	return taxonomy.WithCount(allTags(posts))
}
