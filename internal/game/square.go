package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSquare = errors.New("unknown square")

// Square is one of the nine board positions, rows A-C by columns 1-3.
//
// Each value is a fixed 32-bit pattern built so that for every winning line
// the three member squares claim three consecutive bit positions. A player's
// occupancy mask is the OR of their squares, so a completed line shows up as
// three adjacent set bits in the mask (see Board.CalculateWinner). Every bit
// position belongs to exactly one square, which is what keeps the lines from
// interfering with each other. The constants must never be renumbered.
type Square uint32

const (
	A1 Square = 0x80080080
	A2 Square = 0x40008000
	A3 Square = 0x20000808
	B1 Square = 0x08040000
	B2 Square = 0x04004044
	B3 Square = 0x02000400
	C1 Square = 0x00820002
	C2 Square = 0x00402000
	C3 Square = 0x00200220
)

// Squares lists every square in reading order, row A first.
var Squares = [9]Square{A1, A2, A3, B1, B2, B3, C1, C2, C3}

var squareNames = [9]string{"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3"}

func (that Square) String() string {
	for i, square := range Squares {
		if square == that {
			return squareNames[i]
		}
	}
	return fmt.Sprintf("Square(%#08x)", uint32(that))
}

// ParseSquare maps a name like "B2" (case-insensitive) to its square.
func ParseSquare(name string) (Square, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, squareName := range squareNames {
		if squareName == upper {
			return Squares[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSquare, name)
}
