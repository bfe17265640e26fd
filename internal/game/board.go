package game

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrCorruptBoard is returned by RestoreBoard when the raw masks could not
// have been produced by MakeMove.
var ErrCorruptBoard = errors.New("corrupt board masks")

// Board holds one occupancy mask per mark. It is an immutable value type:
// MakeMove returns a new Board and never touches the receiver, so Board
// values can be shared and compared freely. The zero value is an empty
// board. Invariant: the two masks never overlap.
type Board struct {
	xboard uint32
	oboard uint32
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{xboard: 0x0, oboard: 0x0}
}

// RestoreBoard rebuilds a board from raw masks, typically loaded from
// storage. It rejects masks that overlap, contain only part of a square's
// pattern, or carry bits outside every square's pattern.
func RestoreBoard(xboard, oboard uint32) (Board, error) {
	if xboard&oboard != 0 {
		return Board{}, fmt.Errorf("%w: masks overlap (%#08x & %#08x)", ErrCorruptBoard, xboard, oboard)
	}

	for _, mask := range [2]uint32{xboard, oboard} {
		rest := mask
		for _, square := range Squares {
			pattern := uint32(square)
			switch mask & pattern {
			case 0, pattern:
				rest &^= pattern
			default:
				return Board{}, fmt.Errorf("%w: partial pattern for %s in %#08x", ErrCorruptBoard, square, mask)
			}
		}
		if rest != 0 {
			return Board{}, fmt.Errorf("%w: stray bits %#08x", ErrCorruptBoard, rest)
		}
	}

	return Board{xboard: xboard, oboard: oboard}, nil
}

// Winner names the mark that completed a line and which line it was.
type Winner struct {
	Mark   Mark
	Triple Triple
}

// CalculateWinner reports whether either mark holds a complete line.
//
// ANDing a mask with itself shifted one bit left and one bit right leaves a
// set bit exactly where three consecutive bits were set, which by the Square
// encoding happens only on a completed line. The surviving bit sits in the
// middle of its line's 4-bit group, so counting leading zeros recovers the
// line index. Cross is checked first: if both masks somehow held a line at
// once, Cross wins. Likewise a mask holding several lines reports only the
// highest-order one. Neither state is reachable through legal play.
func (that Board) CalculateWinner() (Winner, bool) {
	if scan := that.xboard & (that.xboard << 1) & (that.xboard >> 1); scan != 0 {
		return Winner{Mark: Cross, Triple: tripleFromIndex(uint32(bits.LeadingZeros32(scan)-1) >> 2)}, true
	}

	if scan := that.oboard & (that.oboard << 1) & (that.oboard >> 1); scan != 0 {
		return Winner{Mark: Naught, Triple: tripleFromIndex(uint32(bits.LeadingZeros32(scan)-1) >> 2)}, true
	}

	return Winner{}, false
}

// checkIndex fails with an occupied error when either player already claims
// the square.
func (that Board) checkIndex(square Square) error {
	if uint32(square)&(that.xboard|that.oboard) == 0 {
		return nil
	}
	return &OccupiedError{Square: square}
}

// MakeMove claims the square for the mark and returns the resulting board,
// leaving the receiver unchanged. The only failure is an occupied square.
func (that Board) MakeMove(mark Mark, square Square) (Board, error) {
	if err := that.checkIndex(square); err != nil {
		return Board{}, err
	}

	if mark == Cross {
		return Board{xboard: that.xboard | uint32(square), oboard: that.oboard}, nil
	}
	return Board{xboard: that.xboard, oboard: that.oboard | uint32(square)}, nil
}

// MarkAt reports which mark occupies the square, if any.
func (that Board) MarkAt(square Square) (Mark, bool) {
	switch {
	case that.xboard&uint32(square) != 0:
		return Cross, true
	case that.oboard&uint32(square) != 0:
		return Naught, true
	default:
		return 0, false
	}
}

// Masks exposes the raw occupancy masks for persistence. The counterpart of
// RestoreBoard.
func (that Board) Masks() (xboard, oboard uint32) {
	return that.xboard, that.oboard
}

// String renders the grid one row per line:
//
//	| |O|X|
//	|X|X|O|
//	|X| |O|
func (that Board) String() string {
	var sb strings.Builder
	for i, square := range Squares {
		sb.WriteByte('|')
		if mark, ok := that.MarkAt(square); ok {
			sb.WriteString(mark.String())
		} else {
			sb.WriteByte(' ')
		}
		if i%3 == 2 {
			sb.WriteString("|\n")
		}
	}
	return sb.String()
}
