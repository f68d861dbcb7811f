// Package slug derives canonical URL slugs from vault file paths.
//
// Segment is the single normalisation rule for the whole module: permalinks,
// rewritten Markdown links, the original-name index and the navigation tree
// all key on its output.
package slug

import (
	"regexp"
	"strings"
)

var (
	bracketRe     = regexp.MustCompile(`[&()\[\]{}]`)
	punctuationRe = regexp.MustCompile("[,;:!?@#$%^*+=|\\\\/<>\"'`~]")
	spaceRe       = regexp.MustCompile(`[\s\p{Zs}]+`)
	dashRe        = regexp.MustCompile(`-{2,}`)
	markdownExtRe = regexp.MustCompile(`\.(md|mdx)$`)
)

// Segment normalises a single path segment into its URL-safe form.
func Segment(s string) string {
	s = strings.ToLower(s)
	s = bracketRe.ReplaceAllString(s, "")
	s = punctuationRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "-")
	s = dashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FromPath strips a .md/.mdx extension from a forward-slash path id and
// normalises every segment. "Projects/My Note.md" becomes "projects/my-note".
func FromPath(id string) string {
	parts := strings.Split(StripExt(id), "/")
	for i, p := range parts {
		parts[i] = Segment(p)
	}
	return strings.Join(parts, "/")
}

// StripExt removes a trailing .md or .mdx extension. The match is
// case-sensitive, mirroring the content loader's file filter.
func StripExt(name string) string {
	return markdownExtRe.ReplaceAllString(name, "")
}

// IsMarkdown reports whether name carries a .md or .mdx extension.
func IsMarkdown(name string) bool {
	return markdownExtRe.MatchString(name)
}
