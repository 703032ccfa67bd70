package forms

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const previewScheme = "blob:"

// Previews hands out local preview handles for picked images and tracks
// which are still live. Handles it did not create are ignored on Release.
type Previews struct {
	mu   sync.Mutex
	live map[string]struct{}
}

func NewPreviews() *Previews {
	return &Previews{live: make(map[string]struct{})}
}

func (p *Previews) Create() string {
	h := previewScheme + uuid.NewString()

	p.mu.Lock()
	p.live[h] = struct{}{}
	p.mu.Unlock()

	return h
}

func (p *Previews) Release(handle string) {
	if !strings.HasPrefix(handle, previewScheme) {
		return
	}
	p.mu.Lock()
	delete(p.live, handle)
	p.mu.Unlock()
}

func (p *Previews) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
