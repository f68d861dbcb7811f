package vault

import (
	"strings"

	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/taxonomy"
)

// FlatList walks the tree depth-first, parents before children, and collects
// every node that has a slug. Pure containers are traversed but skipped.
func FlatList(tree []*models.VaultNode) []models.FlatItem {
	var list []models.FlatItem
	var walk func(nodes []*models.VaultNode)
	walk = func(nodes []*models.VaultNode) {
		for _, n := range nodes {
			if n.Slug != "" {
				list = append(list, models.FlatItem{Title: n.Title, Slug: n.Slug})
			}
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}
	walk(tree)
	return list
}

// Page returns the 1-based page of list with the given size, and the total
// number of pages. Out-of-range pages yield an empty slice.
func Page(list []models.FlatItem, page, size int) ([]models.FlatItem, int) {
	if size <= 0 {
		size = 20
	}
	if page < 1 {
		page = 1
	}
	total := (len(list) + size - 1) / size
	start := (page - 1) * size
	if start >= len(list) {
		return []models.FlatItem{}, total
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], total
}

// Neighbours returns the documents before and after slug in list order.
func Neighbours(list []models.FlatItem, slug string) (prev, next *models.FlatItem) {
	for i := range list {
		if list[i].Slug != slug {
			continue
		}
		if i > 0 {
			prev = &list[i-1]
		}
		if i+1 < len(list) {
			next = &list[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Trail returns the chain of nodes from a root-level node down to the node
// with the given slug, or nil if no node carries it.
func Trail(tree []*models.VaultNode, slug string) []*models.VaultNode {
	for _, n := range tree {
		if n.Slug == slug {
			return []*models.VaultNode{n}
		}
		if sub := Trail(n.Children, slug); sub != nil {
			return append([]*models.VaultNode{n}, sub...)
		}
	}
	return nil
}

func allTags(entries []models.NoteEntry, opts Options) []string {
	var tags []string
	for _, e := range entries {
		if !Visible(e, opts) {
			continue
		}
		for _, t := range e.Data.Tags {
			tags = append(tags, strings.ToLower(t))
		}
	}
	return tags
}

// Tags returns the distinct lowercased tags of all visible entries.
func Tags(entries []models.NoteEntry, opts Options) []string {
	return taxonomy.Unique(allTags(entries, opts))
}

// TagsWithCount returns lowercased tags with their frequency, most used first.
func TagsWithCount(entries []models.NoteEntry, opts Options) []models.TagCount {
	return taxonomy.WithCount(allTags(entries, opts))
}
