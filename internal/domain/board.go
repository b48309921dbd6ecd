package domain

// Board owns the grid and whose turn it is.
// here cells[0] represents the top row (0 -> top and height-1 -> bottom)
type Board struct {
	width         int
	height        int
	cells         [][]PlayerID
	currentPlayer PlayerID
}

func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height}
	b.Reset()
	return b
}

// Reset discards every piece and hands the turn back to player 1.
func (b *Board) Reset() {
	cells := make([][]PlayerID, b.height)
	for i := range cells {
		cells[i] = make([]PlayerID, b.width)
	}
	b.cells = cells
	b.currentPlayer = Player1
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) CurrentPlayer() PlayerID {
	return b.currentPlayer
}

func (b *Board) InBounds(row, column int) bool {
	return row >= 0 && row < b.height && column >= 0 && column < b.width
}

// Cell returns Empty for coordinates outside the grid.
func (b *Board) Cell(row, column int) PlayerID {
	if !b.InBounds(row, column) {
		return Empty
	}
	return b.cells[row][column]
}

// FindLandingRow returns the row a piece dropped in column would come to rest on,
// or NoSlot if the column is full or does not exist.
func (b *Board) FindLandingRow(column int) int {
	if column < 0 || column >= b.width {
		return NoSlot
	}

	// scan from the bottom up, first empty cell is where gravity stops the disk
	for row := b.height - 1; row >= 0; row-- {
		if b.cells[row][column] == Empty {
			return row
		}
	}

	return NoSlot
}

// Place writes player into (row, column). The row must come from FindLandingRow.
func (b *Board) Place(row, column int, player PlayerID) {
	b.cells[row][column] = player
}

func (b *Board) IsFull() bool {
	for _, row := range b.cells {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) AdvanceTurn() {
	b.currentPlayer = b.currentPlayer.Opponent()
}

// Cells returns a deep copy of the grid, safe to hand to encoders.
func (b *Board) Cells() [][]PlayerID {
	out := make([][]PlayerID, len(b.cells))
	for i := range b.cells {
		out[i] = make([]PlayerID, len(b.cells[i]))
		copy(out[i], b.cells[i])
	}
	return out
}

// ValidColumns lists every column that still accepts a piece.
func (b *Board) ValidColumns() []int {
	cols := []int{}
	for col := 0; col < b.width; col++ {
		if b.cells[0][col] == Empty {
			cols = append(cols, col)
		}
	}
	return cols
}
