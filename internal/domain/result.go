package domain

import "time"

// Tally counts finished games at a single table.
type Tally struct {
	Player1Wins int `json:"player1Wins"`
	Player2Wins int `json:"player2Wins"`
	Draws       int `json:"draws"`
}

// Record adds one finished game to the tally. Unfinished statuses are ignored.
func (t *Tally) Record(status GameStatus, winner PlayerID) {
	switch {
	case status == StatusDraw:
		t.Draws++
	case status == StatusWon && winner == Player1:
		t.Player1Wins++
	case status == StatusWon && winner == Player2:
		t.Player2Wins++
	}
}

// GameResult is the archived outcome of one finished game.
type GameResult struct {
	TableID         string       `json:"tableId"`
	GameNumber      int          `json:"gameNumber"`
	Outcome         GameStatus   `json:"outcome"`
	Winner          PlayerID     `json:"winner,omitempty"`
	TotalMoves      int          `json:"totalMoves"`
	DurationSeconds int          `json:"durationSeconds"`
	Board           [][]PlayerID `json:"board"`
	StartedAt       time.Time    `json:"startedAt"`
	FinishedAt      time.Time    `json:"finishedAt"`
}
