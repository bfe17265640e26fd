// Package game implements the rules engine for tic-tac-toe on a bit-packed
// board. Board and Game are plain immutable values: every move builds a new
// value and old ones stay valid, so no locking is ever needed.
package game

// Game couples a board with whose turn it is. The zero value is a fresh game
// with Cross to move.
type Game struct {
	current Mark
	board   Board
}

// NewGame starts an empty game with the given mark to move.
func NewGame(starting Mark) Game {
	return Game{current: starting, board: NewBoard()}
}

// Restore rebuilds a game from persisted state.
func Restore(turn Mark, board Board) Game {
	return Game{current: turn, board: board}
}

// Turn reports whose move it is.
func (that Game) Turn() Mark {
	return that.current
}

// Board returns the current position.
func (that Game) Board() Board {
	return that.board
}

// MakeMove plays the current mark on the square. On success the returned
// game has the move applied and the other mark on turn. On failure the
// board error is propagated unchanged and the turn does not advance; the
// caller keeps playing from the receiver.
func (that Game) MakeMove(square Square) (Game, error) {
	board, err := that.board.MakeMove(that.current, square)
	if err != nil {
		return Game{}, err
	}

	return Game{current: that.current.Other(), board: board}, nil
}

// CalculateWinner reports the winning mark and line if a line is complete,
// regardless of whose turn it is. Nothing here stops play after a win:
// callers that want the game to end must check this after every move.
func (that Game) CalculateWinner() (Winner, bool) {
	return that.board.CalculateWinner()
}
