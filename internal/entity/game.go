package entity

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	MarkX = "X"
	MarkO = "O"

	WinnerDraw = "draw"

	EmptyCell = ""
)

// Game is the board state embedded in a Room. It is mutated only by the
// room manager while the room's lock is held.
type Game struct {
	Board  [9]string `json:"board"`
	Turn   string    `json:"player_turn,omitempty"`
	Winner string    `json:"winner,omitempty"`
	Status string    `json:"status"`
}

func NewGame() *Game {
	return &Game{
		Status: StatusWaiting,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsActive() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsOver() bool {
	return that.Status == StatusFinished
}

// Start activates the game with firstTurn as the opening mark.
func (that *Game) Start(firstTurn string) {
	that.Status = StatusOngoing
	that.Turn = firstTurn
}

// Finish records the terminal outcome and clears the turn marker.
func (that *Game) Finish(winner string) {
	that.Winner = winner
	that.Status = StatusFinished
	that.Turn = ""
}

func (that *Game) Clone() *Game {
	if that == nil {
		return nil
	}

	clone := *that

	return &clone
}

// OppositeMark returns the complementary mark for X or O.
func OppositeMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}

// IsValidMark reports whether mark is one of the two playable marks.
func IsValidMark(mark string) bool {
	return mark == MarkX || mark == MarkO
}
