package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/starford/vaultpress/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// Meta carries the site-wide values shown on every page.
type Meta struct {
	Title    string
	Author   string
	Favicon  string
	Pagefind bool
}

type layoutData struct {
	Site Meta
	Page *Page
	Tree []*models.VaultNode
	Body template.HTML
}

// WriteHTML renders p as a complete HTML document with the vault navigation.
func (s *Snapshot) WriteHTML(w io.Writer, meta Meta, p *Page) error {
	data := layoutData{
		Site: meta,
		Page: p,
		Tree: s.Tree,
		// Rendered by goldmark from vault sources.
		Body: template.HTML(p.HTML),
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("site: write page %s: %w", p.Slug, err)
	}
	return nil
}
