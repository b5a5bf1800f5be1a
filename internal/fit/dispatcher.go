package fit

import "sync"

// Dispatcher enforces last-request-wins per profile: every scoring request
// takes a token with Begin, and Commit only accepts the most recent token.
// A superseded in-flight result is discarded instead of overwriting a newer
// one.
type Dispatcher struct {
	mu  sync.Mutex
	seq map[string]uint64
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{seq: make(map[string]uint64)}
}

// Begin registers a new scoring request for the profile and returns its
// token, superseding any in-flight request.
func (d *Dispatcher) Begin(profileID string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq[profileID]++
	return d.seq[profileID]
}

// Commit reports whether the token still belongs to the latest request for
// the profile. A false return means the result must be dropped.
func (d *Dispatcher) Commit(profileID string, token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq[profileID] == token
}
