package registry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sceneforge/internal/domain"
)

// Registry tracks the assets generated during one session. Completions from
// concurrent batch tasks append interleaved, so every access takes the lock.
// Nothing here survives a process restart.
type Registry struct {
	mu     sync.Mutex
	assets []domain.GeneratedAsset
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// NewFilename mints a collision-resistant filename. UUIDs replace the
// timestamp-derived names that could collide under parallel generation.
func NewFilename(prefix, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s-%s.%s", prefix, uuid.NewString(), ext)
}

// Add appends one asset, stamping CreatedAt when unset.
func (r *Registry) Add(asset domain.GeneratedAsset) {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = append(r.assets, asset)
}

// Remove deletes the first asset with the given filename. Removing an absent
// filename is a no-op, not an error, so deletion is idempotent.
func (r *Registry) Remove(filename string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, asset := range r.assets {
		if asset.Filename == filename {
			r.assets = append(r.assets[:i], r.assets[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the first asset with the given filename.
func (r *Registry) Get(filename string) (domain.GeneratedAsset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, asset := range r.assets {
		if asset.Filename == filename {
			return asset, true
		}
	}
	return domain.GeneratedAsset{}, false
}

// List returns a snapshot of the current assets in insertion order.
func (r *Registry) List() []domain.GeneratedAsset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GeneratedAsset, len(r.assets))
	copy(out, r.assets)
	return out
}

// Clear drops all session state.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = nil
}
