package domain

type Game struct {
	Board     *Board
	Status    GameStatus
	Winner    PlayerID
	MoveCount int
}

// MoveResult is what the presentation layer needs after an accepted drop:
// where the piece landed and what state the game is now in.
type MoveResult struct {
	Row    int        `json:"row"`
	Column int        `json:"column"`
	Player PlayerID   `json:"player"`
	Status GameStatus `json:"status"`
	Winner PlayerID   `json:"winner,omitempty"`
}

func NewGame(width, height int) *Game {
	return &Game{
		Board:  NewBoard(width, height),
		Status: StatusInProgress,
		Winner: Empty,
	}
}

func (g *Game) CurrentPlayer() PlayerID {
	return g.Board.CurrentPlayer()
}

// Drop plays the current player's piece into column.
// A full column leaves the game untouched and returns ErrColumnFull.
func (g *Game) Drop(column int) (MoveResult, error) {
	if g.IsFinished() {
		return MoveResult{}, ErrGameOver
	}

	if column < 0 || column >= g.Board.Width() {
		return MoveResult{}, ErrInvalidColumn
	}

	row := g.Board.FindLandingRow(column)
	if row == NoSlot {
		return MoveResult{}, ErrColumnFull
	}

	mover := g.Board.CurrentPlayer()
	g.Board.Place(row, column, mover)
	g.MoveCount++

	result := MoveResult{Row: row, Column: column, Player: mover}

	// the mover is checked before the turn is advanced
	if CheckWinThrough(g.Board, row, column, mover) {
		g.Status = StatusWon
		g.Winner = mover
	} else if g.Board.IsFull() {
		g.Status = StatusDraw
	} else {
		g.Board.AdvanceTurn()
	}

	result.Status = g.Status
	result.Winner = g.Winner
	return result, nil
}

// Reset starts over on a fresh board with player 1 to move.
func (g *Game) Reset() {
	g.Board.Reset()
	g.Status = StatusInProgress
	g.Winner = Empty
	g.MoveCount = 0
}

func (g *Game) IsFinished() bool {
	return g.Status.IsTerminal()
}
