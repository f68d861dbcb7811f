package markdown

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/starford/vaultpress/internal/permalink"
)

// Renderer converts vault Markdown into HTML. It holds no per-document state
// and may be shared between goroutines.
type Renderer struct {
	engine goldmark.Markdown
	table  *permalink.Table
}

// NewRenderer builds a renderer resolving wiki-links against table. Link
// normalisation warnings go to logger.
func NewRenderer(table *permalink.Table, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&linkTransformer{logger: logger}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{engine: engine, table: table}
}

// Render converts the Markdown body of the document identified by id.
func (r *Renderer) Render(id string, body []byte) ([]byte, error) {
	src := ExpandWikiLinks(body, r.table)

	pc := parser.NewContext()
	pc.Set(docID, id)

	var buf bytes.Buffer
	if err := r.engine.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("markdown: render %s: %w", id, err)
	}
	return buf.Bytes(), nil
}
