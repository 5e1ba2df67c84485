package entity

const (
	HostName  = "Host"
	GuestName = "Guest"
)

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Mark        string `json:"mark"`
	IsHost      bool   `json:"is_host"`
	IsConnected bool   `json:"is_connected"`
}

func NewHostPlayer(id, mark string) *Player {
	return &Player{
		ID:          id,
		Name:        HostName,
		Mark:        mark,
		IsHost:      true,
		IsConnected: true,
	}
}

func NewGuestPlayer(id, mark string) *Player {
	return &Player{
		ID:          id,
		Name:        GuestName,
		Mark:        mark,
		IsConnected: true,
	}
}

func (that *Player) Clone() *Player {
	if that == nil {
		return nil
	}

	clone := *that

	return &clone
}
