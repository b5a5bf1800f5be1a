package handoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	session := NewSession("profile-1")

	require.NotEmpty(t, session.ID)
	assert.Equal(t, "profile-1", session.ProfileID)
	assert.Equal(t, StateAwaitingCapture, session.State)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))
	assert.False(t, session.Expired(time.Now().UTC()))
	assert.True(t, session.Expired(session.ExpiresAt.Add(time.Second)))
}

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateAwaitingCapture, StateCapturing, true},
		{StateAwaitingCapture, StateError, true},
		{StateAwaitingCapture, StateComplete, false},
		{StateCapturing, StateComplete, true},
		{StateCapturing, StateError, true},
		{StateCapturing, StateAwaitingCapture, false},
		{StateError, StateCapturing, true}, // 수동 재시도
		{StateError, StateComplete, false},
		{StateComplete, StateCapturing, false},
		{StateComplete, StateError, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestState_Valid(t *testing.T) {
	assert.True(t, StateAwaitingCapture.Valid())
	assert.True(t, StateComplete.Valid())
	assert.False(t, State("idle").Valid())
	assert.False(t, State("").Valid())
}
