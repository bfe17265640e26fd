package game

import "fmt"

// Triple is one of the eight winning lines: three rows, three columns and
// the two diagonals. Diag1 runs A1-B2-C3, Diag2 runs A3-B2-C1.
type Triple int

const (
	RowA Triple = iota
	RowB
	RowC
	Col1
	Col2
	Col3
	Diag1
	Diag2
)

var tripleNames = [8]string{"RowA", "RowB", "RowC", "Col1", "Col2", "Col3", "Diag1", "Diag2"}

func (that Triple) String() string {
	if that < 0 || int(that) >= len(tripleNames) {
		return fmt.Sprintf("Triple(%d)", int(that))
	}
	return tripleNames[that]
}

// tripleFromIndex converts a bit-scan index back into its winning line. An
// index outside 0-7 cannot be produced by boards built through MakeMove; it
// means a mask was corrupted, so this panics instead of returning an error.
func tripleFromIndex(index uint32) Triple {
	if index > 7 {
		panic(fmt.Sprintf("game: no winning line with index %d", index))
	}
	return Triple(index)
}

// ParseTriple maps a line name like "Diag2" back to its triple.
func ParseTriple(name string) (Triple, error) {
	for i, tripleName := range tripleNames {
		if tripleName == name {
			return Triple(i), nil
		}
	}
	return 0, fmt.Errorf("unknown winning line: %q", name)
}
