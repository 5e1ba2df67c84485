package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roomkit/tictactoe-rooms/internal/apperror"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
	"github.com/roomkit/tictactoe-rooms/internal/tictactoe"
)

const archiveTimeout = 2 * time.Second

// roomArchive mirrors room snapshots for inspection. Writes happen
// after the room lock is released and are fire-and-forget.
type roomArchive interface {
	SaveRoom(ctx context.Context, room *entity.Room) error
	DeleteRoom(ctx context.Context, code string) error
}

// RoomManager arbitrates every intent against the rooms it manages.
// All mutations of one room are serialized by that room's lock;
// different rooms proceed independently.
type RoomManager struct {
	logger   *slog.Logger
	registry *Registry
	archive  roomArchive
}

func NewRoomManager(logger *slog.Logger, registry *Registry, archive roomArchive) *RoomManager {
	return &RoomManager{
		logger:   logger.With("component", "room_manager"),
		registry: registry,
		archive:  archive,
	}
}

// CreateRoom registers a new room with hostID as host. The host plays X
// until it picks another mark before start.
func (that *RoomManager) CreateRoom(_ context.Context, hostID string) (*entity.Room, *entity.Player, error) {
	host := entity.NewHostPlayer(hostID, entity.MarkX)
	room := that.registry.CreateRoom(host)

	snapshot := room.Snapshot()
	that.archiveRoom(snapshot)

	that.logger.Info("room created", "code", snapshot.Code, "hostID", hostID)

	return snapshot, host.Clone(), nil
}

// JoinRoom appends a guest with the complementary mark.
func (that *RoomManager) JoinRoom(_ context.Context, code, guestID string) (*entity.Room, *entity.Player, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, nil, fmt.Errorf("join room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	if room.IsFull() {
		existing.mu.Unlock()
		return nil, nil, fmt.Errorf("join room %s: %w", code, apperror.ErrRoomFull)
	}

	guest := entity.NewGuestPlayer(guestID, entity.OppositeMark(room.HostMark))
	room.Players = append(room.Players, guest)

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)
	that.logger.Info("player joined room", "code", code, "playerID", guestID)

	return snapshot, guest.Clone(), nil
}

// SelectSymbol lets the host switch marks while the game is waiting.
// The guest, if present, receives the complement.
func (that *RoomManager) SelectSymbol(_ context.Context, code, playerID, mark string) (*entity.Room, error) {
	if !entity.IsValidMark(mark) {
		return nil, fmt.Errorf("select symbol %q: %w", mark, apperror.ErrInvalidMark)
	}

	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, fmt.Errorf("select symbol in room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	host := room.Host()
	if host == nil || host.ID != playerID {
		existing.mu.Unlock()
		return nil, apperror.ErrUnauthorized
	}

	if !room.Game.IsWaiting() {
		existing.mu.Unlock()
		return nil, apperror.ErrGameAlreadyStarted
	}

	room.HostMark = mark
	for _, player := range room.Players {
		if player.IsHost {
			player.Mark = mark
		} else {
			player.Mark = entity.OppositeMark(mark)
		}
	}

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)

	return snapshot, nil
}

// StartGame activates the game; the host's mark moves first.
func (that *RoomManager) StartGame(_ context.Context, code, playerID string) (*entity.Room, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, fmt.Errorf("start game in room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	host := room.Host()
	if host == nil || host.ID != playerID {
		existing.mu.Unlock()
		return nil, apperror.ErrUnauthorized
	}

	if !room.Game.IsWaiting() {
		existing.mu.Unlock()
		return nil, apperror.ErrGameAlreadyStarted
	}

	if len(room.Players) < entity.MaxRoomPlayers {
		existing.mu.Unlock()
		return nil, apperror.ErrNotEnoughPlayers
	}

	room.Game.Start(room.HostMark)

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)
	that.logger.Info("game started", "code", code, "firstTurn", snapshot.Game.Turn)

	return snapshot, nil
}

// MakeMove applies one move for playerID.
func (that *RoomManager) MakeMove(_ context.Context, code, playerID string, cell int) (*entity.Room, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, fmt.Errorf("move in room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	player := room.PlayerByID(playerID)
	if player == nil {
		existing.mu.Unlock()
		return nil, apperror.ErrUnauthorized
	}

	if !room.Game.IsActive() {
		existing.mu.Unlock()
		return nil, apperror.ErrGameNotActive
	}

	if err = tictactoe.ApplyMove(room.Game, player.Mark, cell); err != nil {
		existing.mu.Unlock()
		return nil, fmt.Errorf("move in room %s: %w", code, err)
	}

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)
	that.logger.Info("move made", "code", code, "mark", player.Mark, "cell", cell)

	return snapshot, nil
}

// ForceMove plays a random free cell for whichever mark is on turn. The
// turn countdown lives client-side; this is the intent it fires. A
// forced move racing a regular one is settled by the room lock: the
// loser sees the flipped turn or the terminal state.
func (that *RoomManager) ForceMove(_ context.Context, code string) (*entity.Room, int, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, 0, fmt.Errorf("forced move in room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	if !room.Game.IsActive() {
		existing.mu.Unlock()
		return nil, 0, apperror.ErrGameNotActive
	}

	cell, err := tictactoe.RandomFreeCell(room.Game.Board, lockedRand{that.registry})
	if err != nil {
		existing.mu.Unlock()
		return nil, 0, fmt.Errorf("forced move in room %s: %w", code, err)
	}

	mark := room.Game.Turn
	if err = tictactoe.ApplyMove(room.Game, mark, cell); err != nil {
		existing.mu.Unlock()
		return nil, 0, fmt.Errorf("forced move in room %s: %w", code, err)
	}

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)
	that.logger.Info("forced move made", "code", code, "mark", mark, "cell", cell)

	return snapshot, cell, nil
}

// GameState returns a snapshot sufficient for a cold client to resync.
func (that *RoomManager) GameState(_ context.Context, code string) (*entity.Room, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, fmt.Errorf("game state of room %s: %w", code, err)
	}

	existing.mu.Lock()
	snapshot := existing.room.Snapshot()
	existing.mu.Unlock()

	return snapshot, nil
}

// Disconnect marks the player as gone. The game freezes rather than
// forfeits; once every player is disconnected the room is torn down.
// It returns the post-disconnect snapshot and whether the room was
// removed.
func (that *RoomManager) Disconnect(_ context.Context, code, playerID string) (*entity.Room, bool, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, false, fmt.Errorf("disconnect from room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	player := room.PlayerByID(playerID)
	if player == nil {
		existing.mu.Unlock()
		return nil, false, apperror.ErrUnauthorized
	}

	player.IsConnected = false
	removed := room.AllDisconnected()

	snapshot := room.Snapshot()
	existing.mu.Unlock()

	if removed {
		that.registry.DeleteRoom(code)
		that.dropArchivedRoom(code)
		that.logger.Info("room removed, all players disconnected", "code", code)
	} else {
		that.archiveRoom(snapshot)
		that.logger.Info("player disconnected", "code", code, "playerID", playerID)
	}

	return snapshot, removed, nil
}

// Reconnect restores liveness for a known player rebinding within the
// process lifetime.
func (that *RoomManager) Reconnect(_ context.Context, code, playerID string) (*entity.Room, *entity.Player, error) {
	existing, err := that.registry.entry(code)
	if err != nil {
		return nil, nil, fmt.Errorf("reconnect to room %s: %w", code, err)
	}

	existing.mu.Lock()
	room := existing.room

	player := room.PlayerByID(playerID)
	if player == nil {
		existing.mu.Unlock()
		return nil, nil, apperror.ErrUnauthorized
	}

	player.IsConnected = true

	snapshot := room.Snapshot()
	reconnected := player.Clone()
	existing.mu.Unlock()

	that.archiveRoom(snapshot)
	that.logger.Info("player reconnected", "code", code, "playerID", playerID)

	return snapshot, reconnected, nil
}

func (that *RoomManager) archiveRoom(snapshot *entity.Room) {
	if that.archive == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := that.archive.SaveRoom(ctx, snapshot); err != nil {
			that.logger.Warn("failed to archive room snapshot", "code", snapshot.Code, "error", err)
		}
	}()
}

func (that *RoomManager) dropArchivedRoom(code string) {
	if that.archive == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := that.archive.DeleteRoom(ctx, code); err != nil {
			that.logger.Warn("failed to drop archived room snapshot", "code", code, "error", err)
		}
	}()
}

// lockedRand adapts the registry's guarded random source for the engine.
type lockedRand struct {
	registry *Registry
}

func (that lockedRand) Intn(n int) int {
	return that.registry.intn(n)
}
