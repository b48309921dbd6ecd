package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)

	assert.Equal(t, DefaultColumns, b.Width())
	assert.Equal(t, DefaultRows, b.Height())
	assert.Equal(t, Player1, b.CurrentPlayer())
	assert.False(t, b.IsFull())

	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			assert.Equal(t, Empty, b.Cell(row, col))
		}
	}
}

func TestFindLandingRowStacksFromTheBottom(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)

	for want := DefaultRows - 1; want >= 0; want-- {
		row := b.FindLandingRow(3)
		require.Equal(t, want, row)
		b.Place(row, 3, Player1)
	}

	assert.Equal(t, NoSlot, b.FindLandingRow(3), "full column has no slot")
	assert.Equal(t, DefaultRows-1, b.FindLandingRow(2), "neighbouring column is untouched")
}

func TestFindLandingRowSkipsOccupiedCellsBelow(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)
	b.Place(5, 0, Player1)
	b.Place(4, 0, Player2)
	b.Place(3, 0, Player1)

	row := b.FindLandingRow(0)
	assert.Equal(t, 2, row)
	for r := row + 1; r < b.Height(); r++ {
		assert.NotEqual(t, Empty, b.Cell(r, 0))
	}
}

func TestFindLandingRowOutOfRange(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)

	assert.Equal(t, NoSlot, b.FindLandingRow(-1))
	assert.Equal(t, NoSlot, b.FindLandingRow(DefaultColumns))
}

func TestIsFull(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			assert.False(t, b.IsFull())
			b.Place(row, col, Player2)
		}
	}
	assert.True(t, b.IsFull())
}

func TestIsFullIgnoresTopRowOnlyFill(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)
	// cells are placed without gravity here on purpose; IsFull must look at every cell
	for col := 0; col < b.Width(); col++ {
		b.Place(0, col, Player1)
	}
	assert.False(t, b.IsFull())
}

func TestAdvanceTurnAlternates(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)

	b.AdvanceTurn()
	assert.Equal(t, Player2, b.CurrentPlayer())
	b.AdvanceTurn()
	assert.Equal(t, Player1, b.CurrentPlayer())
}

func TestResetClearsGridAndTurn(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)
	b.Place(5, 0, Player1)
	b.AdvanceTurn()

	b.Reset()

	assert.Equal(t, Empty, b.Cell(5, 0))
	assert.Equal(t, Player1, b.CurrentPlayer())
}

func TestCellsIsACopy(t *testing.T) {
	b := NewBoard(DefaultColumns, DefaultRows)
	cells := b.Cells()
	cells[5][0] = Player2

	assert.Equal(t, Empty, b.Cell(5, 0))
}

func TestValidColumns(t *testing.T) {
	b := NewBoard(4, 4)
	for row := 3; row >= 0; row-- {
		b.Place(row, 1, Player1)
	}

	assert.Equal(t, []int{0, 2, 3}, b.ValidColumns())
}
