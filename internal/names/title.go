package names

import (
	"regexp"
	"strings"

	"github.com/starford/vaultpress/internal/slug"
)

var (
	wordSepRe  = regexp.MustCompile(`[-_\s]+`)
	lowerAlnum = regexp.MustCompile(`^[a-z0-9]+$`)
)

// FormatTitle turns a filename-derived segment into a display title.
// Words that are entirely lowercase alphanumerics get a capital first letter;
// anything else ("iPad", "API", "v1.2") is left alone.
func FormatTitle(segment string) string {
	words := wordSepRe.Split(slug.StripExt(segment), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if lowerAlnum.MatchString(w) {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// Title prefers the original name recorded for normalizedPath and falls
// back to FormatTitle(raw).
func (ix *Index) Title(normalizedPath, raw string) string {
	if name, ok := ix.Lookup(normalizedPath); ok {
		return name
	}
	return FormatTitle(raw)
}
