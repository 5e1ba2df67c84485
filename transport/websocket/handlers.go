package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/roomkit/tictactoe-rooms/internal/apperror"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

// ensureIdentity gives the connection a player ID, keeping one supplied
// by a returning client so it can rebind within the process lifetime.
func (that *Server) ensureIdentity(conn *connection, payload *Payload) {
	if conn.playerID != "" {
		return
	}

	if payload.Player != nil && payload.Player.ID != "" {
		conn.playerID = payload.Player.ID
	} else {
		conn.playerID = uuid.NewString()
	}

	that.register(conn)
}

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	that.ensureIdentity(conn, payload)

	// A known player reconnecting to its room restores liveness.
	if payload.Room != nil && payload.Room.Code != "" {
		room, player, err := that.manager.Reconnect(ctx, payload.Room.Code, conn.playerID)
		if err != nil {
			return err
		}

		conn.roomCode = room.Code

		if err = that.sendMessage(conn, msg.Action, Payload{Player: player, Room: room, Game: room.Game}); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}

		that.broadcastToRoom(room, ActionPlayerReconnected, Payload{Player: player, Room: room, Game: room.Game})

		log.Info("player reconnected", "playerID", conn.playerID, "code", room.Code)

		return nil
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Player: &entity.Player{ID: conn.playerID, IsConnected: true}}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "playerID", conn.playerID)

	return nil
}

func (that *Server) handleCreateRoom(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleCreateRoom")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	that.ensureIdentity(conn, payload)

	room, host, err := that.manager.CreateRoom(ctx, conn.playerID)
	if err != nil {
		return err
	}

	conn.roomCode = room.Code

	if err = that.sendMessage(conn, msg.Action, Payload{Player: host, Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("room created", "code", room.Code, "playerID", conn.playerID)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleJoinRoom")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.Room == nil || payload.Room.Code == "" {
		return apperror.ErrRoomNotFound
	}

	that.ensureIdentity(conn, payload)

	room, guest, err := that.manager.JoinRoom(ctx, payload.Room.Code, conn.playerID)
	if err != nil {
		return err
	}

	conn.roomCode = room.Code

	if err = that.sendMessage(conn, msg.Action, Payload{Player: guest, Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, ActionPlayerJoined, Payload{Player: guest, Room: room, Game: room.Game})

	log.Info("player joined", "code", room.Code, "playerID", conn.playerID)

	return nil
}

func (that *Server) handleSelectSymbol(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if conn.roomCode == "" {
		return apperror.ErrRoomNotFound
	}

	room, err := that.manager.SelectSymbol(ctx, conn.roomCode, conn.playerID, payload.Mark)
	if err != nil {
		return err
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, ActionSymbolSelected, Payload{Room: room, Game: room.Game})

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleStartGame")

	if conn.roomCode == "" {
		return apperror.ErrRoomNotFound
	}

	room, err := that.manager.StartGame(ctx, conn.roomCode, conn.playerID)
	if err != nil {
		return err
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, ActionGameStarted, Payload{Room: room, Game: room.Game})

	log.Info("game started", "code", room.Code)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if conn.roomCode == "" {
		return apperror.ErrRoomNotFound
	}

	if payload.Cell == nil {
		return fmt.Errorf("%w: cell is required", apperror.ErrInvalidMove)
	}

	room, err := that.manager.MakeMove(ctx, conn.roomCode, conn.playerID, *payload.Cell)
	if err != nil {
		return err
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, ActionTurnMade, Payload{Room: room, Game: room.Game, Cell: payload.Cell})

	return nil
}

func (that *Server) handleForceTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleForceTurn")

	if conn.roomCode == "" {
		return apperror.ErrRoomNotFound
	}

	room, cell, err := that.manager.ForceMove(ctx, conn.roomCode)
	if err != nil {
		return err
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, ActionTurnMade, Payload{Room: room, Game: room.Game, Cell: &cell, Forced: true})

	log.Info("forced move", "code", room.Code, "cell", cell)

	return nil
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	if conn.roomCode == "" {
		return apperror.ErrRoomNotFound
	}

	room, err := that.manager.GameState(ctx, conn.roomCode)
	if err != nil {
		return err
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Player: room.PlayerByID(conn.playerID), Room: room, Game: room.Game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
