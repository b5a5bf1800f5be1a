package handoff

import (
	"time"

	"github.com/google/uuid"
)

// Capture session states. A session is created on the desktop in
// AwaitingCapture, moves to Capturing when the phone starts submitting, and
// ends in Complete once the profile's avatar and measurements are written.
// Error is re-enterable: the phone may retry submission without a new
// session.
type State string

const (
	StateAwaitingCapture State = "awaiting_capture"
	StateCapturing       State = "capturing"
	StateComplete        State = "complete"
	StateError           State = "error"
)

func (s State) Valid() bool {
	switch s {
	case StateAwaitingCapture, StateCapturing, StateComplete, StateError:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal step.
// Complete is terminal.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateAwaitingCapture:
		return next == StateCapturing || next == StateError
	case StateCapturing:
		return next == StateComplete || next == StateError
	case StateError:
		return next == StateCapturing
	}
	return false
}

const sessionTTL = 15 * time.Minute

// Session binds a desktop "waiting" context and a mobile "capturing"
// context to one profile identifier.
type Session struct {
	ID        string    `json:"sessionId"`
	ProfileID string    `json:"profileId"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewSession(profileID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		State:     StateAwaitingCapture,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
