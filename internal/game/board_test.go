package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripleSquares = map[Triple][3]Square{
	RowA:  {A1, A2, A3},
	RowB:  {B1, B2, B3},
	RowC:  {C1, C2, C3},
	Col1:  {A1, B1, C1},
	Col2:  {A2, B2, C2},
	Col3:  {A3, B3, C3},
	Diag1: {A1, B2, C3},
	Diag2: {A3, B2, C1},
}

func TestBoard_MakeMove(t *testing.T) {
	t.Run("Claims an empty square for the acting mark only", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: Cross plays B2
		next, err := board.MakeMove(Cross, B2)
		require.NoError(t, err)

		// Then: B2 belongs to Cross on the new board
		mark, occupied := next.MarkAt(B2)
		require.True(t, occupied)
		require.Equal(t, Cross, mark)

		// Then: no other square is occupied
		for _, square := range Squares {
			if square == B2 {
				continue
			}
			_, occupied = next.MarkAt(square)
			assert.False(t, occupied, "square %s should be empty", square)
		}

		// Then: the original board is unchanged
		require.Equal(t, NewBoard(), board)
	})

	t.Run("Rejects a square occupied by either mark", func(t *testing.T) {
		// Given: a board where Cross holds B2
		board := NewBoard()
		board, err := board.MakeMove(Cross, B2)
		require.NoError(t, err)

		// When: either mark plays B2 again
		for _, mark := range []Mark{Cross, Naught} {
			_, err = board.MakeMove(mark, B2)

			// Then: an occupied error naming B2 is returned
			require.ErrorIs(t, err, ErrSquareOccupied)

			var occupied *OccupiedError
			require.ErrorAs(t, err, &occupied)
			assert.Equal(t, B2, occupied.Square)
		}
	})

	t.Run("Masks never overlap", func(t *testing.T) {
		// Given: alternating legal moves across the whole board
		board := NewBoard()
		mark := Cross

		for _, square := range Squares {
			var err error
			board, err = board.MakeMove(mark, square)
			require.NoError(t, err)

			// Then: the exclusivity invariant holds after every move
			xboard, oboard := board.Masks()
			require.Zero(t, xboard&oboard)

			mark = mark.Other()
		}
	})
}

func TestBoard_CalculateWinner(t *testing.T) {
	t.Run("Detects every winning line for both marks", func(t *testing.T) {
		for triple, squares := range tripleSquares {
			for _, mark := range []Mark{Cross, Naught} {
				// Given: a board where the mark holds the full line
				board := NewBoard()
				for _, square := range squares {
					var err error
					board, err = board.MakeMove(mark, square)
					require.NoError(t, err)
				}

				// When: the winner is calculated
				winner, ok := board.CalculateWinner()

				// Then: exactly that mark and line are reported
				require.True(t, ok, "%s should win via %s", mark, triple)
				assert.Equal(t, mark, winner.Mark)
				assert.Equal(t, triple, winner.Triple)
			}
		}
	})

	t.Run("Reports nothing on a full board without a line", func(t *testing.T) {
		// Given: a drawn position
		//	|X|O|X|
		//	|X|O|O|
		//	|O|X|X|
		board := NewBoard()
		for square, mark := range map[Square]Mark{
			A1: Cross, A2: Naught, A3: Cross,
			B1: Cross, B2: Naught, B3: Naught,
			C1: Naught, C2: Cross, C3: Cross,
		} {
			var err error
			board, err = board.MakeMove(mark, square)
			require.NoError(t, err)
		}

		// When: the winner is calculated
		_, ok := board.CalculateWinner()

		// Then: there is none
		require.False(t, ok)
	})

	t.Run("Cross wins when both marks hold a line", func(t *testing.T) {
		// Given: complete lines for both marks, a state unreachable through
		// legal play but representable at board level
		board := NewBoard()
		for _, square := range tripleSquares[RowC] {
			var err error
			board, err = board.MakeMove(Naught, square)
			require.NoError(t, err)
		}
		for _, square := range tripleSquares[RowA] {
			var err error
			board, err = board.MakeMove(Cross, square)
			require.NoError(t, err)
		}

		// When: the winner is calculated
		winner, ok := board.CalculateWinner()

		// Then: Cross is reported because it is checked first
		require.True(t, ok)
		assert.Equal(t, Cross, winner.Mark)
		assert.Equal(t, RowA, winner.Triple)
	})

	t.Run("Empty board has no winner", func(t *testing.T) {
		_, ok := NewBoard().CalculateWinner()
		require.False(t, ok)
	})
}

func TestRestoreBoard(t *testing.T) {
	t.Run("Round-trips masks produced by MakeMove", func(t *testing.T) {
		// Given: a board built through legal moves
		board := NewBoard()
		for square, mark := range map[Square]Mark{B2: Cross, A1: Naught, C3: Cross} {
			var err error
			board, err = board.MakeMove(mark, square)
			require.NoError(t, err)
		}

		// When: its raw masks are restored
		xboard, oboard := board.Masks()
		restored, err := RestoreBoard(xboard, oboard)

		// Then: the restored board is identical
		require.NoError(t, err)
		require.Equal(t, board, restored)
	})

	t.Run("Rejects overlapping masks", func(t *testing.T) {
		_, err := RestoreBoard(uint32(B2), uint32(B2))
		require.ErrorIs(t, err, ErrCorruptBoard)
	})

	t.Run("Rejects a partial square pattern", func(t *testing.T) {
		// 0x80000000 is only one of A1's three bits
		_, err := RestoreBoard(0x80000000, 0)
		require.ErrorIs(t, err, ErrCorruptBoard)
	})
}

func TestBoard_String(t *testing.T) {
	// Given: some occupied squares
	board := NewBoard()
	for square, mark := range map[Square]Mark{A3: Cross, B2: Naught, C1: Cross} {
		var err error
		board, err = board.MakeMove(mark, square)
		require.NoError(t, err)
	}

	// Then: the grid renders in reading order
	require.Equal(t, "| | |X|\n| |O| |\n|X| | |\n", board.String())
}

func TestTripleFromIndex(t *testing.T) {
	t.Run("Panics on an impossible line index", func(t *testing.T) {
		require.Panics(t, func() {
			tripleFromIndex(8)
		})
	})
}
