package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_LastRequestWins(t *testing.T) {
	d := NewDispatcher()

	first := d.Begin("profile-1")
	second := d.Begin("profile-1")

	// 뒤에 시작된 요청이 항상 이김
	assert.False(t, d.Commit("profile-1", first), "superseded request must be discarded")
	assert.True(t, d.Commit("profile-1", second))
}

func TestDispatcher_ProfilesAreIndependent(t *testing.T) {
	d := NewDispatcher()

	a := d.Begin("profile-a")
	b := d.Begin("profile-b")

	assert.True(t, d.Commit("profile-a", a))
	assert.True(t, d.Commit("profile-b", b))
}
