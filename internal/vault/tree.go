package vault

import (
	"sort"
	"strings"

	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/names"
	"github.com/starford/vaultpress/internal/slug"
)

// trieNode is the in-progress tree keyed by raw path segments.
type trieNode struct {
	key        string
	title      string
	order      int
	entry      *models.NoteEntry
	folderNote bool
	children   map[string]*trieNode
	keys       []string // insertion order of children
}

func newTrieNode(key, title string) *trieNode {
	return &trieNode{
		key:      key,
		title:    title,
		order:    models.DefaultOrder,
		children: make(map[string]*trieNode),
	}
}

func (n *trieNode) child(key string, title func() string) *trieNode {
	if c, ok := n.children[key]; ok {
		return c
	}
	c := newTrieNode(key, title())
	n.children[key] = c
	n.keys = append(n.keys, key)
	return c
}

// treePath returns the raw segments that locate an entry in the tree and
// whether the entry is a folder note.
func treePath(id string) ([]string, bool) {
	parts := strings.Split(id, "/")
	dirs, filename := parts[:len(parts)-1], parts[len(parts)-1]
	if IsFolderNote(filename) {
		return dirs, true
	}
	return append(dirs[:len(dirs):len(dirs)], slug.StripExt(filename)), false
}

// provisionalTitle is used for nodes created on the way to an entry. It is
// replaced as soon as an entry lands on the node.
func provisionalTitle(ix *names.Index, normalized, raw string) string {
	if name, ok := ix.Lookup(normalized); ok {
		return name
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(raw)
}

// BuildTree arranges enriched entries into sorted root-level navigation nodes.
//
// A folder note (index/README) lands on its folder's node, so that node holds
// both the note and the folder's other documents. When two entries land on
// the same node, the later one wins. A folder note at the vault root has no
// node of its own; see RootNote.
func BuildTree(entries []models.NoteEntry, ix *names.Index) []*models.VaultNode {
	root := newTrieNode("", "")

	for i := range entries {
		e := &entries[i]
		parts, folderNote := treePath(e.ID)

		current := root
		normalized := ""
		for _, part := range parts {
			if normalized == "" {
				normalized = slug.Segment(part)
			} else {
				normalized += "/" + slug.Segment(part)
			}
			acc, raw := normalized, part
			current = current.child(part, func() string { return provisionalTitle(ix, acc, raw) })
		}
		if current == root {
			continue
		}

		current.entry = e
		current.folderNote = folderNote
		if e.Title != "" {
			current.title = e.Title
		} else if e.Data.Title != "" {
			current.title = e.Data.Title
		}
		if e.Data.Order != nil {
			current.order = *e.Data.Order
		}
	}

	return buildList(root)
}

// RootNote returns the folder note at the top of the vault, if any.
func RootNote(entries []models.NoteEntry) *models.NoteEntry {
	var found *models.NoteEntry
	for i := range entries {
		if !strings.Contains(entries[i].ID, "/") && IsFolderNote(entries[i].ID) {
			found = &entries[i]
		}
	}
	return found
}

func buildList(n *trieNode) []*models.VaultNode {
	type keyed struct {
		key  string
		node *models.VaultNode
	}
	items := make([]keyed, 0, len(n.keys))
	for _, k := range n.keys {
		c := n.children[k]
		node := &models.VaultNode{
			Title:    c.title,
			Children: buildList(c),
			Order:    c.order,
			Entry:    c.entry,
		}
		switch {
		case c.entry == nil:
			node.Kind = models.KindContainer
		case c.folderNote || len(node.Children) > 0:
			node.Kind = models.KindFolderNote
		default:
			node.Kind = models.KindDocument
		}
		if c.entry != nil {
			node.Slug = c.entry.Slug
			if node.Slug == "" {
				node.Slug = slug.FromPath(c.entry.ID)
			}
		}
		items = append(items, keyed{key: k, node: node})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i].node, items[j].node, items[i].key, items[j].key)
	})

	out := make([]*models.VaultNode, len(items))
	for i, it := range items {
		out[i] = it.node
	}
	return out
}

// less orders siblings: by order, then folders before leaves, then by title
// ignoring case. The raw key keeps the result deterministic for equal titles.
func less(a, b *models.VaultNode, aKey, bKey string) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if af, bf := a.IsFolder(), b.IsFolder(); af != bf {
		return af
	}
	at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
	if at != bt {
		return at < bt
	}
	return aKey < bKey
}
