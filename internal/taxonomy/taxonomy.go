// Package taxonomy aggregates tags across content collections.
package taxonomy

import (
	"sort"

	"github.com/starford/vaultpress/internal/models"
)

// Unique returns tags with duplicates removed, in first-seen order.
func Unique(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// WithCount counts occurrences of each tag and sorts by count, highest first.
// Equal counts keep first-seen order.
func WithCount(tags []string) []models.TagCount {
	idx := make(map[string]int, len(tags))
	var out []models.TagCount
	for _, t := range tags {
		if i, ok := idx[t]; ok {
			out[i].Count++
			continue
		}
		idx[t] = len(out)
		out = append(out, models.TagCount{Tag: t, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
