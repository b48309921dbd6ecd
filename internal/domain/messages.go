package domain

// ClientMessage is a frame sent by the browser. Column is nil when a drop
// frame leaves it out.
type ClientMessage struct {
	Type    string `json:"type"`
	TableID string `json:"tableId,omitempty"`
	Token   string `json:"token,omitempty"`
	Column  *int   `json:"column,omitempty"`
}

type ServerMessage struct {
	Type        string       `json:"type"`
	Message     string       `json:"message,omitempty"`
	TableID     string       `json:"tableId,omitempty"`
	GameNumber  int          `json:"gameNumber,omitempty"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	Board       [][]PlayerID `json:"board,omitempty"`
	CurrentTurn PlayerID     `json:"currentTurn,omitempty"`
	Move        *MoveResult  `json:"move,omitempty"`
	Status      GameStatus   `json:"status,omitempty"`
	Winner      PlayerID     `json:"winner,omitempty"`
	Tally       *Tally       `json:"tally,omitempty"`
}

// message types exchanged over the table socket
const (
	MsgInit      = "init"
	MsgDrop      = "drop"
	MsgRestart   = "restart"
	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"
	MsgClosed    = "table_closed"
)
