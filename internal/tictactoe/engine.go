package tictactoe

import (
	"fmt"

	"github.com/roomkit/tictactoe-rooms/internal/apperror"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

// WinCombos are checked in a fixed order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Rand is the injected random source, seedable for deterministic tests.
type Rand interface {
	Intn(n int) int
}

// ApplyMove places mark on cell, evaluates the outcome and either flips
// the turn or finishes the game. At most one cell changes per call; on
// error the board is untouched.
func ApplyMove(game *entity.Game, mark string, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d out of range", apperror.ErrInvalidMove, cell)
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if game.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d is occupied", apperror.ErrInvalidMove, cell)
	}

	game.Board[cell] = mark

	if outcome := DetectOutcome(game.Board); outcome != "" {
		game.Finish(outcome)
		return nil
	}

	game.Turn = entity.OppositeMark(mark)

	return nil
}

// DetectOutcome returns the winning mark, entity.WinnerDraw for a full
// board without a winner, or "" while the game is still open.
func DetectOutcome(board [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range board {
		if cell == entity.EmptyCell {
			return ""
		}
	}

	return entity.WinnerDraw
}

// RandomFreeCell picks a uniformly random empty cell for a forced move.
func RandomFreeCell(board [9]string, rnd Rand) (int, error) {
	freeCells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			freeCells = append(freeCells, i)
		}
	}

	if len(freeCells) == 0 {
		return 0, apperror.ErrNoValidMoves
	}

	return freeCells[rnd.Intn(len(freeCells))], nil
}
