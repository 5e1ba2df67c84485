package repository

import (
	"testing"
	"time"

	"github.com/roomkit/tictactoe-rooms/internal/entity"
	"github.com/roomkit/tictactoe-rooms/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomArchive_SaveAndGet(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewRoomArchive(st.Storage, time.Hour)

	// Given: a room snapshot with two players and a started game
	host := entity.NewHostPlayer("host-1", entity.MarkX)
	room := entity.NewRoom("ABC123", host)
	room.Players = append(room.Players, entity.NewGuestPlayer("guest-1", entity.MarkO))
	room.Game.Start(entity.MarkX)
	room.Game.Board[4] = entity.MarkX

	// When: saving and reading it back
	err := archive.SaveRoom(ctx, room.Snapshot())
	require.NoError(t, err)

	stored, err := archive.GetRoom(ctx, room.Code)

	// Then: the stored snapshot matches what was written
	require.NoError(t, err)
	assert.Equal(t, room.Code, stored.Code)
	require.Len(t, stored.Players, 2)
	assert.Equal(t, entity.MarkX, stored.Game.Board[4])
	assert.Equal(t, entity.StatusOngoing, stored.Game.Status)
}

func TestRoomArchive_GetNotFound(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewRoomArchive(st.Storage, time.Hour)

	// When: reading a code that was never archived
	_, err := archive.GetRoom(ctx, "ZZZZZZ")

	// Then: ErrSnapshotNotFound
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRoomArchive_DeleteRoom(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewRoomArchive(st.Storage, time.Hour)

	// Given: an archived room
	room := entity.NewRoom("ABC123", entity.NewHostPlayer("host-1", entity.MarkX))
	require.NoError(t, archive.SaveRoom(ctx, room))

	// When: deleting it twice
	require.NoError(t, archive.DeleteRoom(ctx, room.Code))
	require.NoError(t, archive.DeleteRoom(ctx, room.Code))

	// Then: the snapshot is gone
	_, err := archive.GetRoom(ctx, room.Code)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
