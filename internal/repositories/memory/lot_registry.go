package memory

import (
	"context"
	"sync"

	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
)

// LotRegistry is an in-memory lot usability map. Unknown lots are unusable.
type LotRegistry struct {
	mu     sync.RWMutex
	usable map[string]bool
}

var _ portssvc.LotRegistry = (*LotRegistry)(nil)

// NewLotRegistry creates an empty registry.
func NewLotRegistry() *LotRegistry {
	return &LotRegistry{usable: make(map[string]bool)}
}

// SetLotUsable records the usability verdict for a lot.
func (r *LotRegistry) SetLotUsable(lotID string, usable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usable[lotID] = usable
}

// IsLotUsable reports whether the lot may back movements.
func (r *LotRegistry) IsLotUsable(ctx context.Context, lotID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usable[lotID], nil
}
