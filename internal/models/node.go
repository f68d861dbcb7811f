package models

// NodeKind distinguishes the three shapes a navigation node can take.
type NodeKind int

const (
	// KindContainer is a folder without content of its own.
	KindContainer NodeKind = iota
	// KindDocument is a leaf note.
	KindDocument
	// KindFolderNote is a folder whose index/README note supplies its content.
	KindFolderNote
)

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindDocument:
		return "document"
	case KindFolderNote:
		return "folder-note"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// VaultNode is one entry in the navigation tree.
type VaultNode struct {
	Title    string       `json:"title"`
	Slug     string       `json:"slug,omitempty"`
	Children []*VaultNode `json:"children"`
	Order    int          `json:"order"`
	Kind     NodeKind     `json:"kind"`
	Entry    *NoteEntry   `json:"-"`

	// Presentation-only state, never set while building.
	Active bool `json:"active,omitempty"`
	IsOpen bool `json:"is_open,omitempty"`
}

// IsFolder reports whether the node has children.
func (n *VaultNode) IsFolder() bool {
	return len(n.Children) > 0
}

// HasContent reports whether the node is backed by a note.
func (n *VaultNode) HasContent() bool {
	return n.Entry != nil
}
