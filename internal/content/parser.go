// Package content loads vault notes from storage and parses their frontmatter.
package content

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/vaultpress/internal/models"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	headingRe  = regexp.MustCompile(`(?m)^#\s+(.+?)\s*#*\s*$`)
)

// Result holds the output of parsing a Markdown note.
type Result struct {
	Data  models.NoteData
	Body  []byte
	Links []string
	// Heading is the text of the first level-one heading, if any.
	Heading string
}

// ParseInto decodes YAML frontmatter into v and returns the body without the
// frontmatter block. A document without frontmatter is returned whole. If
// the frontmatter cannot be decoded, the whole document is returned as body
// along with the error so the caller can decide whether to warn.
func ParseInto(data []byte, v any) ([]byte, error) {
	body, err := frontmatter.Parse(bytes.NewReader(data), v)
	if err != nil {
		return data, err
	}
	return body, nil
}

// Parse extracts note frontmatter, body and wiki-link targets.
// Invalid frontmatter falls back to an empty payload; the error is returned
// alongside a usable Result.
func Parse(data []byte) (*Result, error) {
	var fm models.NoteData
	body, err := ParseInto(data, &fm)
	if err != nil {
		fm = models.NoteData{}
	}
	return &Result{
		Data:    fm,
		Body:    body,
		Links:   extractLinks(string(body)),
		Heading: firstHeading(body),
	}, err
}

// extractLinks returns deduplicated wiki-link targets, dropping aliases and
// heading fragments.
func extractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		if i := strings.Index(target, "#"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

func firstHeading(body []byte) string {
	m := headingRe.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return string(m[1])
}
