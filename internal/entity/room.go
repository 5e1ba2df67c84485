package entity

import "time"

const MaxRoomPlayers = 2

// Room is a two-player session identified by a short code. The registry
// exclusively owns every Room; transports only ever see snapshots.
type Room struct {
	Code      string    `json:"code"`
	Players   []*Player `json:"players"`
	Game      *Game     `json:"game"`
	HostMark  string    `json:"host_mark"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRoom(code string, host *Player) *Room {
	return &Room{
		Code:      code,
		Players:   []*Player{host},
		Game:      NewGame(),
		HostMark:  host.Mark,
		CreatedAt: time.Now(),
	}
}

func (that *Room) Host() *Player {
	for _, player := range that.Players {
		if player.IsHost {
			return player
		}
	}

	return nil
}

func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Room) PlayerByMark(mark string) *Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}

	return nil
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxRoomPlayers
}

func (that *Room) AllDisconnected() bool {
	for _, player := range that.Players {
		if player.IsConnected {
			return false
		}
	}

	return true
}

// Snapshot returns a deep copy safe to hand to transports and the
// archive after the room's lock is released.
func (that *Room) Snapshot() *Room {
	if that == nil {
		return nil
	}

	players := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		players = append(players, player.Clone())
	}

	return &Room{
		Code:      that.Code,
		Players:   players,
		Game:      that.Game.Clone(),
		HostMark:  that.HostMark,
		CreatedAt: that.CreatedAt,
	}
}
