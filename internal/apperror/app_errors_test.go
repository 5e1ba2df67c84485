package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"room not found", ErrRoomNotFound, "room_not_found"},
		{"room full", ErrRoomFull, "room_full"},
		{"unauthorized", ErrUnauthorized, "unauthorized"},
		{"not enough players", ErrNotEnoughPlayers, "not_enough_players"},
		{"game already started", ErrGameAlreadyStarted, "game_already_started"},
		{"game not active", ErrGameNotActive, "game_not_active"},
		{"not your turn", ErrNotYourTurn, "not_your_turn"},
		{"invalid move", ErrInvalidMove, "invalid_move"},
		{"invalid mark", ErrInvalidMark, "invalid_mark"},
		{"no valid moves", ErrNoValidMoves, "no_valid_moves"},
		{"wrapped errors keep their code", fmt.Errorf("join room ABC123: %w", ErrRoomFull), "room_full"},
		{"unknown errors map to internal", errors.New("boom"), CodeInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.code, Code(test.err))
		})
	}
}

func TestIsAppError(t *testing.T) {
	// Then: taxonomy members are caller-visible, anything else is not
	assert.True(t, IsAppError(ErrNotYourTurn))
	assert.True(t, IsAppError(fmt.Errorf("move in room ABC123: %w", ErrInvalidMove)))
	assert.False(t, IsAppError(errors.New("redis: connection refused")))
	assert.False(t, IsAppError(nil))
}
