// Package markdown renders vault notes to HTML with goldmark, rewriting
// internal links to canonical slugs on the way.
package markdown

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/starford/vaultpress/internal/permalink"
	"github.com/starford/vaultpress/internal/slug"
)

var (
	externalRe = regexp.MustCompile(`(?i)^(https?:|mailto:|tel:)`)
	assetRe    = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|webp|svg|pdf)$`)
)

// NormalizeLink rewrites an internal link URL to the canonical slug form.
//
// External links, same-page anchors and asset links are returned unchanged;
// assets keep their case because they are served case-sensitively from disk.
// Markdown references, /vault/ paths and relative paths are split on the
// first literal "#", decoded one segment at a time, stripped of .md/.mdx and
// normalised with the slug rule. Encoded separators such as %2F or %23 stay
// inside their segment. "." and ".." segments are kept as-is. A malformed
// escape returns the URL unchanged together with an error.
func NormalizeLink(raw string) (string, error) {
	if raw == "" || externalRe.MatchString(raw) || strings.HasPrefix(raw, "#") {
		return raw, nil
	}

	rawPath, fragment := raw, ""
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		rawPath, fragment = raw[:i], raw[i:]
	}

	parts := strings.Split(rawPath, "/")
	for i, part := range parts {
		dec, err := url.PathUnescape(part)
		if err != nil {
			return raw, fmt.Errorf("markdown: decode link %q: %w", raw, err)
		}
		parts[i] = dec
	}
	if fragment != "" {
		dec, err := url.PathUnescape(fragment)
		if err != nil {
			return raw, fmt.Errorf("markdown: decode link %q: %w", raw, err)
		}
		fragment = dec
	}

	last := parts[len(parts)-1]
	if assetRe.MatchString(last) {
		return raw, nil
	}
	if !slug.IsMarkdown(last) && !strings.HasPrefix(rawPath, permalink.Prefix) && strings.HasPrefix(rawPath, "/") {
		return raw, nil
	}

	parts[len(parts)-1] = slug.StripExt(last)
	for i, part := range parts {
		if part == "." || part == ".." {
			continue
		}
		parts[i] = slug.Segment(part)
	}
	return strings.Join(parts, "/") + fragment, nil
}

var docID = parser.NewContextKey()

// linkTransformer applies NormalizeLink to every link node of a document.
type linkTransformer struct {
	logger *slog.Logger
}

// Transform implements parser.ASTTransformer.
func (t *linkTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		rewritten, err := NormalizeLink(string(link.Destination))
		if err != nil {
			id, _ := pc.Get(docID).(string)
			t.logger.Warn("markdown: failed to normalize link",
				slog.String("document", id),
				slog.String("url", string(link.Destination)),
				slog.String("error", err.Error()))
			return ast.WalkContinue, nil
		}
		link.Destination = []byte(rewritten)
		return ast.WalkContinue, nil
	})
}
