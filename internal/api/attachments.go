package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// attachmentPrefix is the route segment under /vault/ that serves attachments.
const attachmentPrefix = "attachments/"

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// mimeType maps a file extension to its content type. Unknown extensions are
// served as application/octet-stream.
func mimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// AttachmentHandler serves binary files from the vault attachments directory.
type AttachmentHandler struct {
	dir string
}

// NewAttachmentHandler creates a handler serving files below dir.
func NewAttachmentHandler(dir string) *AttachmentHandler {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &AttachmentHandler{dir: abs}
}

// safeName resolves a forward-slash name below the attachments directory and
// rejects traversal.
func (h *AttachmentHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.dir, cleaned)
	if !strings.HasPrefix(abs, h.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes attachments directory")
	}
	return abs, nil
}

// exists reports whether abs names a regular file whose path matches the
// requested case exactly, even on case-insensitive file systems.
func (h *AttachmentHandler) exists(abs string) bool {
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return false
	}
	rel, err := filepath.Rel(h.dir, abs)
	if err != nil {
		return false
	}
	dir := h.dir
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return false
		}
		found := false
		for _, e := range entries {
			if e.Name() == part {
				found = true
				break
			}
		}
		if !found {
			return false
		}
		dir = filepath.Join(dir, part)
	}
	return true
}

// Serve writes the attachment name (relative to the attachments directory).
func (h *AttachmentHandler) Serve(w http.ResponseWriter, r *http.Request, name string) {
	abs, err := h.safeName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.exists(abs) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", mimeType(abs))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
