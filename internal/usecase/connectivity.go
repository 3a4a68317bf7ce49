package usecase

import (
	"sync"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/domain/repository"
)

// Connectivity derives the online/offline signal from prediction outcomes,
// the primary user-initiated path. Only a transport-level failure flips it
// to offline; a backend-reported domain error means the backend answered.
type Connectivity struct {
	mu      sync.RWMutex
	online  bool
	metrics repository.Metrics
}

// NewConnectivity starts in the online state, matching the dashboard's
// optimistic initial rendering.
func NewConnectivity(metrics repository.Metrics) *Connectivity {
	c := &Connectivity{online: true, metrics: metrics}
	if metrics != nil {
		metrics.RecordConnectivity(true)
	}
	return c
}

// Observe consumes the result of a prediction fetch.
func (c *Connectivity) Observe(ferr *models.FetchError) {
	online := ferr == nil || ferr.Kind != models.ErrKindNetworkUnreachable

	c.mu.Lock()
	changed := c.online != online
	c.online = online
	c.mu.Unlock()

	if changed && c.metrics != nil {
		c.metrics.RecordConnectivity(online)
	}
}

// Online reports the current derived state.
func (c *Connectivity) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}
