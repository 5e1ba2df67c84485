package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/roomkit/tictactoe-rooms/internal/apperror"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

type gameManager interface {
	CreateRoom(ctx context.Context, hostID string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, guestID string) (*entity.Room, *entity.Player, error)
	SelectSymbol(ctx context.Context, code, playerID, mark string) (*entity.Room, error)
	StartGame(ctx context.Context, code, playerID string) (*entity.Room, error)
	MakeMove(ctx context.Context, code, playerID string, cell int) (*entity.Room, error)
	ForceMove(ctx context.Context, code string) (*entity.Room, int, error)
	GameState(ctx context.Context, code string) (*entity.Room, error)
	Disconnect(ctx context.Context, code, playerID string) (*entity.Room, bool, error)
	Reconnect(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error)
}

// connection binds a socket to a player identity and a room code. Per
// the ownership rules it never holds room state, only the back-reference.
type connection struct {
	sock *websocket.Conn

	writeMu sync.Mutex

	playerID string
	roomCode string
}

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*connection

	handlers map[string]func(ctx context.Context, conn *connection, msg *Message) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		conns:    make(map[string]*connection),
		handlers: make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers[ActionConnect] = server.handleConnect
	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionSelectSymbol] = server.handleSelectSymbol
	server.handlers[ActionStartGame] = server.handleStartGame
	server.handlers[ActionGameTurn] = server.handleGameTurn
	server.handlers[ActionForceTurn] = server.handleForceTurn
	server.handlers[ActionGameState] = server.handleGameState

	return server
}

// Handler returns the WS endpoint for mounting in tests and servers.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sock, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	that.handleMessages(ctx, &connection{sock: sock})
}

// handleMessages - processes messages from one client until it drops.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages")

	defer that.closeConnection(ctx, conn)

	for {
		_, reqBody, err := conn.sock.ReadMessage()
		if err != nil {
			log.Info("connection closed", "playerID", conn.playerID, "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			that.sendFailure(conn, message.Action, err)
		}
	}
}

// closeConnection unbinds the socket and runs the disconnect transition
// for the bound room. Disconnection is a state change, not an error.
func (that *Server) closeConnection(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "closeConnection")

	defer conn.sock.Close()

	if conn.playerID == "" {
		return
	}

	that.mu.Lock()
	if current, ok := that.conns[conn.playerID]; ok && current == conn {
		delete(that.conns, conn.playerID)
	}
	that.mu.Unlock()

	if conn.roomCode == "" {
		return
	}

	room, removed, err := that.manager.Disconnect(ctx, conn.roomCode, conn.playerID)
	if err != nil {
		log.Error("failed to handle disconnect", "playerID", conn.playerID, "error", err)
		return
	}

	if removed {
		return
	}

	that.broadcastToRoom(room, ActionPlayerDisconnected, Payload{
		Player: room.PlayerByID(conn.playerID),
		Room:   room,
		Game:   room.Game,
	})
}

func (that *Server) register(conn *connection) {
	that.mu.Lock()
	that.conns[conn.playerID] = conn
	that.mu.Unlock()
}

// broadcastToRoom notifies every connected player bound to the room.
// Sends are fire-and-forget; a dead peer only loses its own updates.
func (that *Server) broadcastToRoom(room *entity.Room, action string, payload Payload) {
	log := that.logger.With("method", "broadcastToRoom", "code", room.Code)

	for _, player := range room.Players {
		that.mu.RLock()
		conn, ok := that.conns[player.ID]
		that.mu.RUnlock()

		if !ok {
			continue
		}

		if err := that.sendMessage(conn, action, Payload{
			Player: payload.Player,
			Room:   payload.Room,
			Game:   payload.Game,
			Cell:   payload.Cell,
			Forced: payload.Forced,
		}); err != nil {
			log.Error("failed to send broadcast", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	conn.writeMu.Lock()
	defer conn.writeMu.Unlock()

	if err = conn.sock.WriteMessage(websocket.TextMessage, responseBytes); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendFailure maps an intent error to its tagged wire variant. Faults
// outside the taxonomy are logged and surfaced as a generic internal
// failure so one broken room cannot take the process down.
func (that *Server) sendFailure(conn *connection, action string, err error) {
	log := that.logger.With("method", "sendFailure")

	code := apperror.Code(err)
	message := err.Error()
	if !apperror.IsAppError(err) {
		log.Error("internal fault in handler", "action", action, "error", err)
		message = "internal error"
	}

	if sendErr := that.sendMessage(conn, action, Payload{
		Error: &ErrorInfo{Code: code, Message: message},
	}); sendErr != nil {
		log.Error("failed to send error response", "error", sendErr)
	}
}
