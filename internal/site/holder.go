package site

import "sync/atomic"

// Holder publishes the current snapshot to concurrent readers. Readers never
// observe a partially built snapshot.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder serving s.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Load returns the snapshot currently being served.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Store replaces the served snapshot.
func (h *Holder) Store(s *Snapshot) {
	h.current.Store(s)
}
