package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	// Given: a host player
	host := NewHostPlayer("host-1", MarkX)

	// When: creating a room
	room := NewRoom("ABC123", host)

	// Then: the host is the sole player, the game waits, host mark is kept
	require.Len(t, room.Players, 1)
	assert.Same(t, host, room.Host())
	assert.Equal(t, MarkX, room.HostMark)
	assert.True(t, room.Game.IsWaiting())
	assert.False(t, room.IsFull())
	assert.False(t, room.CreatedAt.IsZero())
}

func TestRoom_Lookups(t *testing.T) {
	host := NewHostPlayer("host-1", MarkX)
	guest := NewGuestPlayer("guest-1", MarkO)
	room := NewRoom("ABC123", host)
	room.Players = append(room.Players, guest)

	t.Run("PlayerByID finds both players", func(t *testing.T) {
		assert.Same(t, host, room.PlayerByID("host-1"))
		assert.Same(t, guest, room.PlayerByID("guest-1"))
		assert.Nil(t, room.PlayerByID("stranger"))
	})

	t.Run("PlayerByMark finds both marks", func(t *testing.T) {
		assert.Same(t, host, room.PlayerByMark(MarkX))
		assert.Same(t, guest, room.PlayerByMark(MarkO))
	})

	t.Run("Two players make the room full", func(t *testing.T) {
		assert.True(t, room.IsFull())
	})
}

func TestRoom_AllDisconnected(t *testing.T) {
	// Given: a room with two connected players
	host := NewHostPlayer("host-1", MarkX)
	guest := NewGuestPlayer("guest-1", MarkO)
	room := NewRoom("ABC123", host)
	room.Players = append(room.Players, guest)

	// Then: not all disconnected while anyone is live
	assert.False(t, room.AllDisconnected())

	host.IsConnected = false
	assert.False(t, room.AllDisconnected())

	guest.IsConnected = false
	assert.True(t, room.AllDisconnected())
}

func TestRoom_Snapshot(t *testing.T) {
	// Given: a room with a started game
	host := NewHostPlayer("host-1", MarkX)
	guest := NewGuestPlayer("guest-1", MarkO)
	room := NewRoom("ABC123", host)
	room.Players = append(room.Players, guest)
	room.Game.Start(MarkX)

	// When: taking a snapshot and mutating it
	snapshot := room.Snapshot()
	snapshot.Players[0].IsConnected = false
	snapshot.Game.Board[0] = MarkX
	snapshot.HostMark = MarkO

	// Then: the owned room is unaffected
	assert.True(t, room.Players[0].IsConnected)
	assert.Equal(t, EmptyCell, room.Game.Board[0])
	assert.Equal(t, MarkX, room.HostMark)
}
