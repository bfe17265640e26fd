package game

import (
	"errors"
	"fmt"
)

var ErrUnknownMark = errors.New("unknown mark")

// Mark identifies one of the two players.
type Mark int

const (
	Cross Mark = iota
	Naught
)

// Other returns the opposing mark.
func (that Mark) Other() Mark {
	if that == Cross {
		return Naught
	}
	return Cross
}

// String returns the display symbol of the mark.
func (that Mark) String() string {
	if that == Cross {
		return "X"
	}
	return "O"
}

// ParseMark maps a display symbol back to its mark.
func ParseMark(symbol string) (Mark, error) {
	switch symbol {
	case "X":
		return Cross, nil
	case "O":
		return Naught, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMark, symbol)
	}
}
