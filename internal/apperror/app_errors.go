package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrUnauthorized       = errors.New("only the host can do that")
	ErrNotEnoughPlayers   = errors.New("need 2 players to start")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotActive      = errors.New("game is not active")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrInvalidMove        = errors.New("invalid move")
	ErrInvalidMark        = errors.New("invalid mark")
	ErrNoValidMoves       = errors.New("no valid moves available")
)

const CodeInternal = "internal"

// Code maps a caller-visible error to its wire code.
// Anything outside the taxonomy is reported as internal.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, ErrGameAlreadyStarted):
		return "game_already_started"
	case errors.Is(err, ErrGameNotActive):
		return "game_not_active"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrInvalidMove):
		return "invalid_move"
	case errors.Is(err, ErrInvalidMark):
		return "invalid_mark"
	case errors.Is(err, ErrNoValidMoves):
		return "no_valid_moves"
	default:
		return CodeInternal
	}
}

// IsAppError reports whether err belongs to the caller-visible taxonomy.
func IsAppError(err error) bool {
	return Code(err) != CodeInternal
}
