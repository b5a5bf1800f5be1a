package handoff

import (
	"log"
	"sync"
)

// Event is a change notification for one profile's capture flow.
type Event struct {
	ProfileID string `json:"profileId"`
	SessionID string `json:"sessionId"`
	State     State  `json:"state"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Subscription is a cancellable watch on one profile. Close is safe to call
// more than once and from any goroutine; after Close the channel is drained
// and closed by the hub.
type Subscription struct {
	C chan Event

	hub       *Hub
	profileID string
	once      sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub fans capture events out to watchers, replacing polling with push.
// One desktop session holds exactly one subscription for the lifetime of
// its waiting screen.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(profileID string) *Subscription {
	sub := &Subscription{
		C:         make(chan Event, 8),
		hub:       h,
		profileID: profileID,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[profileID] == nil {
		h.subs[profileID] = make(map[*Subscription]struct{})
	}
	h.subs[profileID][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.profileID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.profileID)
		}
	}
	close(sub.C)
}

// Publish delivers the event to every watcher of the profile. Sends never
// block: a watcher whose buffer is full misses the event and is expected to
// re-read state on its next frame.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[event.ProfileID] {
		select {
		case sub.C <- event:
		default:
			log.Printf("Hub.Publish(): dropping event for slow watcher of profile %s", event.ProfileID)
		}
	}
}

// Watchers returns the number of open subscriptions for the profile.
func (h *Hub) Watchers(profileID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[profileID])
}
