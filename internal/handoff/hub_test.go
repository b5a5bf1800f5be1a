package handoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesWatcher(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("profile-1")
	defer sub.Close()

	// 아바타 기록을 관찰한 쪽은 폴링 없이 Complete로 전이함
	hub.Publish(Event{ProfileID: "profile-1", SessionID: "s1", State: StateComplete, AvatarURL: "https://example.com/avatar.png"})

	select {
	case event := <-sub.C:
		assert.Equal(t, StateComplete, event.State)
		assert.Equal(t, "https://example.com/avatar.png", event.AvatarURL)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed event, got none")
	}
}

func TestHub_PublishOnlyTargetsProfile(t *testing.T) {
	hub := NewHub()
	target := hub.Subscribe("profile-1")
	other := hub.Subscribe("profile-2")
	defer target.Close()
	defer other.Close()

	hub.Publish(Event{ProfileID: "profile-1", State: StateCapturing})

	select {
	case <-target.C:
	case <-time.After(time.Second):
		t.Fatal("target watcher missed the event")
	}
	select {
	case event := <-other.C:
		t.Fatalf("unrelated watcher received event: %+v", event)
	default:
	}
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("profile-1")

	require.Equal(t, 1, hub.Watchers("profile-1"))

	require.NotPanics(t, func() {
		sub.Close()
		sub.Close()
	})
	assert.Equal(t, 0, hub.Watchers("profile-1"))

	// 닫힌 구독으로는 이벤트가 가지 않음
	hub.Publish(Event{ProfileID: "profile-1", State: StateComplete})
	_, open := <-sub.C
	assert.False(t, open, "channel must be closed after Close")
}

func TestHub_PublishWithoutWatchersIsNoop(t *testing.T) {
	hub := NewHub()
	require.NotPanics(t, func() {
		hub.Publish(Event{ProfileID: "nobody", State: StateComplete})
	})
}

func TestHub_SlowWatcherDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("profile-1")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// 버퍼(8)보다 많이 보내도 Publish는 블록되지 않음
		for i := 0; i < 20; i++ {
			hub.Publish(Event{ProfileID: "profile-1", State: StateCapturing})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow watcher")
	}
}
