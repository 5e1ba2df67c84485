package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

var ErrSnapshotNotFound = errors.New("room snapshot not found")

// RoomArchive keeps the latest snapshot of every live room in redis so
// operators can inspect rooms without touching the process. It is never
// read on the request path; the in-process registry stays authoritative.
type RoomArchive interface {
	SaveRoom(ctx context.Context, room *entity.Room) error
	GetRoom(ctx context.Context, code string) (*entity.Room, error)
	DeleteRoom(ctx context.Context, code string) error
}

type roomArchive struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomArchive(client *redis.Client, ttl time.Duration) RoomArchive {
	return &roomArchive{
		client: client,
		ttl:    ttl,
	}
}

func (that *roomArchive) SaveRoom(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	roomKey := "room:" + room.Code
	if err = that.client.Set(ctx, roomKey, roomJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room snapshot: %w", err)
	}

	return nil
}

func (that *roomArchive) GetRoom(ctx context.Context, code string) (*entity.Room, error) {
	roomKey := "room:" + code

	response, err := that.client.Get(ctx, roomKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room snapshot: %w", err)
	}

	var room entity.Room
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room snapshot: %w", err)
	}

	return &room, nil
}

func (that *roomArchive) DeleteRoom(ctx context.Context, code string) error {
	roomKey := "room:" + code

	if err := that.client.Del(ctx, roomKey).Err(); err != nil {
		return fmt.Errorf("failed to delete room snapshot: %w", err)
	}

	return nil
}
