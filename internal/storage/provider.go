// Package storage defines the read-only vault file-system abstraction and the
// output writer used by static exports.
package storage

import "github.com/starford/vaultpress/internal/models"

// Provider is the interface for vault file access. All paths are forward-slash
// and relative to the vault root.
type Provider interface {
	// List returns metadata for every .md/.mdx file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// ListAll returns metadata for every non-hidden file under dir.
	ListAll(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Root returns the absolute vault root.
	Root() string
}

// Writer persists generated files below an output root.
type Writer interface {
	// Write atomically writes content to path (relative to the output root).
	Write(path string, content []byte) error
}
