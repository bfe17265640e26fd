package game

import (
	"errors"
	"fmt"
)

// ErrSquareOccupied is the only recoverable failure in this package: a move
// targeted a square already claimed by either player. Match it with
// errors.Is; the concrete *OccupiedError carries the square itself.
var ErrSquareOccupied = errors.New("square is already occupied")

// OccupiedError reports which square a rejected move targeted.
type OccupiedError struct {
	Square Square
}

func (that *OccupiedError) Error() string {
	return fmt.Sprintf("%s: %s", that.Square, ErrSquareOccupied)
}

func (that *OccupiedError) Unwrap() error {
	return ErrSquareOccupied
}
