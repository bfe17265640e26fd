package entity

import (
	"errors"
	"fmt"

	"github.com/bitgrid/tictactoe-backend/internal/apperror"
	"github.com/bitgrid/tictactoe-backend/internal/game"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX = "X"
	PlayerO = "O"
)

var ErrUnknownSessionStatus = errors.New("unknown session status")

// Session is a stored game: the packed occupancy masks of the rules engine
// plus everything the service tracks around them. The engine's Board and
// Game are immutable values, so the session keeps only their raw state and
// rebuilds them on demand.
type Session struct {
	ID      string    `json:"id"`
	XBoard  uint32    `json:"xboard"`
	OBoard  uint32    `json:"oboard"`
	Turn    string    `json:"turn"`
	Status  string    `json:"status"`
	Winner  string    `json:"winner,omitempty"`
	Line    string    `json:"line,omitempty"`
	Players []*Player `json:"players,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// Game reconstructs the rules-engine state from the stored masks. Masks that
// fail validation mean the stored record was corrupted outside MakeTurn.
func (that *Session) Game() (game.Game, error) {
	board, err := game.RestoreBoard(that.XBoard, that.OBoard)
	if err != nil {
		return game.Game{}, fmt.Errorf("session %s: %w", that.ID, err)
	}

	turn, err := game.ParseMark(that.Turn)
	if err != nil {
		return game.Game{}, fmt.Errorf("session %s: %w", that.ID, err)
	}

	return game.Restore(turn, board), nil
}

// MakeTurn plays one move for the given mark and folds the result back into
// the session. The engine itself never stops play after a win; finishing is
// service policy, applied here via the session status.
func (that *Session) MakeTurn(playerMark, squareName string) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	square, err := game.ParseSquare(squareName)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	current, err := that.Game()
	if err != nil {
		return err
	}

	next, err := current.MakeMove(square)
	if err != nil {
		return err
	}

	that.XBoard, that.OBoard = next.Board().Masks()
	that.Turn = next.Turn().String()

	if winner, ok := next.CalculateWinner(); ok {
		that.Winner = winner.Mark.String()
		that.Line = winner.Triple.String()
		that.Status = StatusFinished
		that.Turn = ""
	}

	return nil
}

// HasPlayer reports whether the player is part of this session.
func (that *Session) HasPlayer(playerID string) bool {
	for _, player := range that.Players {
		if player.ID == playerID {
			return true
		}
	}
	return false
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrSessionNotStarted
	case that.IsFinished():
		return apperror.ErrSessionFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSessionStatus, that.Status)
	}
}
