package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/starford/vaultpress/internal/permalink"
	"github.com/starford/vaultpress/internal/slug"
)

var wikilinkRe = regexp.MustCompile(`(!?)\[\[([^\[\]\n]+?)\]\]`)

// ExpandWikiLinks rewrites [[Target]], [[Target|Alias]], [[Target#Heading]]
// and ![[image.png]] into standard Markdown links using the permalink table.
// Fenced code blocks and inline code spans are left alone. Targets that do
// not resolve become a "wikilink-missing" span.
func ExpandWikiLinks(src []byte, table *permalink.Table) []byte {
	if table == nil || !strings.Contains(string(src), "[[") {
		return src
	}

	lines := strings.SplitAfter(string(src), "\n")
	var b strings.Builder
	b.Grow(len(src))

	fence := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence == "" && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")) {
			fence = trimmed[:3]
			b.WriteString(line)
			continue
		}
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			b.WriteString(line)
			continue
		}
		b.WriteString(expandLine(line, table))
	}
	return []byte(b.String())
}

// expandLine rewrites wiki-links outside inline code spans.
func expandLine(line string, table *permalink.Table) string {
	if !strings.Contains(line, "[[") {
		return line
	}
	parts := strings.Split(line, "`")
	for i := 0; i < len(parts); i += 2 {
		parts[i] = wikilinkRe.ReplaceAllStringFunc(parts[i], func(m string) string {
			sub := wikilinkRe.FindStringSubmatch(m)
			return renderWikiLink(sub[1] == "!", sub[2], table)
		})
	}
	return strings.Join(parts, "`")
}

func renderWikiLink(embed bool, inner string, table *permalink.Table) string {
	target, alias := inner, ""
	if i := strings.IndexByte(inner, '|'); i >= 0 {
		target, alias = inner[:i], strings.TrimSpace(inner[i+1:])
	}
	target = strings.TrimSpace(target)

	heading := ""
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target, heading = strings.TrimSpace(target[:i]), strings.TrimSpace(target[i+1:])
	}

	label := alias
	if label == "" || embed {
		label = strings.TrimSpace(strings.SplitN(inner, "|", 2)[0])
	}

	route, ok := "", target == "" && heading != ""
	if target != "" {
		route, ok = table.Resolve(target)
	}
	if !ok {
		return `<span class="wikilink-missing">` + html.EscapeString(label) + `</span>`
	}
	if heading != "" {
		route += "#" + slug.Segment(heading)
	}

	if embed && assetRe.MatchString(target) {
		return "![" + escapeLabel(label) + "](<" + route + ">)"
	}
	return "[" + escapeLabel(label) + "](<" + route + ">)"
}

func escapeLabel(s string) string {
	return strings.NewReplacer(`[`, `\[`, `]`, `\]`).Replace(s)
}
