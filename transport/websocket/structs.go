package websocket

import (
	"encoding/json"

	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

// Message is a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the closed set of fields an intent or broadcast can carry.
// Snapshots are deep copies; clients never see registry-owned state.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Room   *entity.Room   `json:"room,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	Mark   string         `json:"mark,omitempty"`
	Forced bool           `json:"forced,omitempty"`
	Error  *ErrorInfo     `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client intents.
const (
	ActionConnect      = "connect"
	ActionCreateRoom   = "room:create"
	ActionJoinRoom     = "room:join"
	ActionSelectSymbol = "room:symbol"
	ActionStartGame    = "game:start"
	ActionGameTurn     = "game:turn"
	ActionForceTurn    = "game:force"
	ActionGameState    = "game:state"
)

// Server broadcasts.
const (
	ActionPlayerJoined       = "room:player_joined"
	ActionPlayerReconnected  = "room:player_reconnected"
	ActionPlayerDisconnected = "room:player_disconnected"
	ActionSymbolSelected     = "room:symbol_selected"
	ActionGameStarted        = "game:started"
	ActionTurnMade           = "game:turn_made"
)
