package domain

// the four line directions as (deltaRow, deltaCol): horizontal, vertical,
// diagonal down-right and diagonal down-left
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CheckWin scans every cell as the possible start of a run of ToWin pieces
// belonging to player. A run leaving the grid is simply not a win.
func CheckWin(b *Board, player PlayerID) bool {
	if !player.Valid() {
		return false
	}

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			for _, d := range directions {
				if runFrom(b, y, x, d[0], d[1], player) {
					return true
				}
			}
		}
	}
	return false
}

func runFrom(b *Board, row, column, deltaRow, deltaCol int, player PlayerID) bool {
	for i := 0; i < ToWin; i++ {
		r, c := row+i*deltaRow, column+i*deltaCol
		if !b.InBounds(r, c) || b.cells[r][c] != player {
			return false
		}
	}
	return true
}

// CheckWinThrough only looks at the lines passing through (row, column),
// which is all that can change after a single drop.
func CheckWinThrough(b *Board, row, column int, player PlayerID) bool {
	if !player.Valid() || b.Cell(row, column) != player {
		return false
	}

	for _, d := range directions {
		count := 1 +
			CountDiskInDirection(b, row, column, d[0], d[1], player) +
			CountDiskInDirection(b, row, column, -d[0], -d[1], player)
		if count >= ToWin {
			return true
		}
	}
	return false
}

// CountDiskInDirection counts consecutive pieces of player starting next to
// (row, column) and walking by (deltaRow, deltaCol).
func CountDiskInDirection(b *Board, row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for b.InBounds(r, c) && b.cells[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
