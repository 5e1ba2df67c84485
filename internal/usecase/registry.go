package usecase

import (
	"sync"

	"github.com/roomkit/tictactoe-rooms/internal/apperror"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Rand is the injected random source for code generation and forced
// moves, seedable for deterministic tests.
type Rand interface {
	Intn(n int) int
}

// roomEntry pairs a room with its mutation lock. Every intent for a
// room runs with this lock held, which is what makes moves, forced
// moves and disconnects atomic per room.
type roomEntry struct {
	mu   sync.Mutex
	room *entity.Room
}

// Registry owns every live room. There is exactly one instance per
// process, created in application wiring and passed by reference.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	rndMu sync.Mutex
	rnd   Rand
}

func NewRegistry(rnd Rand) *Registry {
	return &Registry{
		rooms: make(map[string]*roomEntry),
		rnd:   rnd,
	}
}

// CreateRoom generates a code unique among live rooms and registers a
// new room with host as the sole player.
func (that *Registry) CreateRoom(host *entity.Player) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	var code string
	for {
		code = that.generateCode()
		if _, exists := that.rooms[code]; !exists {
			break
		}
	}

	room := entity.NewRoom(code, host)
	that.rooms[code] = &roomEntry{room: room}

	return room
}

func (that *Registry) entry(code string) (*roomEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existing, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return existing, nil
}

// DeleteRoom removes a room; deleting an unknown code is a no-op.
func (that *Registry) DeleteRoom(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

func (that *Registry) generateCode() string {
	that.rndMu.Lock()
	defer that.rndMu.Unlock()

	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[that.rnd.Intn(len(codeAlphabet))]
	}

	return string(code)
}

// intn draws from the shared random source under its own lock.
func (that *Registry) intn(n int) int {
	that.rndMu.Lock()
	defer that.rndMu.Unlock()

	return that.rnd.Intn(n)
}
