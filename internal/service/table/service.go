package table

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-hotseat/internal/domain"
	"github.com/iamasit07/connect4-hotseat/pkg/uid"
)

var ErrTableNotFound = errors.New("table not found")

// Notifier delivers server frames to whoever is sitting at a table
type Notifier interface {
	Broadcast(tableID string, message domain.ServerMessage)
	CloseTable(tableID string)
}

type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.GameResult) error
}

type Scoreboard interface {
	Record(ctx context.Context, status domain.GameStatus, winner domain.PlayerID) error
}

// Table is one hot-seat game: both players share the same client.
type Table struct {
	ID            string
	Game          *domain.Game
	GameNumber    int
	Tally         domain.Tally
	CreatedAt     time.Time
	GameStartedAt time.Time
	LastActivity  time.Time
	mu            sync.Mutex
	manager       *Manager

	// held while frames go out so they reach sockets in game order
	sendMu sync.Mutex
}

// Snapshot is a read-only copy of a table for HTTP responses
type Snapshot struct {
	TableID     string              `json:"tableId"`
	GameNumber  int                 `json:"gameNumber"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Board       [][]domain.PlayerID `json:"board"`
	CurrentTurn domain.PlayerID     `json:"currentTurn"`
	Status      domain.GameStatus   `json:"status"`
	Winner      domain.PlayerID     `json:"winner,omitempty"`
	MoveCount   int                 `json:"moveCount"`
	Tally       domain.Tally        `json:"tally"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Manager owns every open table
type Manager struct {
	Tables map[string]*Table // tableID → Table
	mu     sync.RWMutex
	width  int
	height int
	repo   ResultRepository
	scores Scoreboard

	// background archive writes still in flight
	pending   sync.WaitGroup
	archiveMu sync.Mutex
	closing   bool
}

// NewManager creates a manager. repo and scores may be nil when the
// archive or the scoreboard cache is disabled.
func NewManager(width, height int, repo ResultRepository, scores Scoreboard) *Manager {
	return &Manager{
		Tables: make(map[string]*Table),
		width:  width,
		height: height,
		repo:   repo,
		scores: scores,
	}
}

func (m *Manager) Dimensions() (int, int) {
	return m.width, m.height
}

func (m *Manager) CreateTable() (*Table, error) {
	tableID, err := uid.GenerateTableID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Table{
		ID:            tableID,
		Game:          domain.NewGame(m.width, m.height),
		GameNumber:    1,
		CreatedAt:     now,
		GameStartedAt: now,
		LastActivity:  now,
		manager:       m,
	}

	m.mu.Lock()
	m.Tables[tableID] = t
	m.mu.Unlock()

	log.Printf("[TABLE] Created table %s (%dx%d)", tableID, m.width, m.height)
	return t, nil
}

func (m *Manager) GetTable(tableID string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, exists := m.Tables[tableID]
	return t, exists
}

func (m *Manager) RemoveTable(tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tables[tableID]; !exists {
		return fmt.Errorf("remove %s: %w", tableID, ErrTableNotFound)
	}

	log.Printf("[TABLE] Removing table %s", tableID)
	delete(m.Tables, tableID)
	return nil
}

// ActiveTables returns snapshots of every table, oldest first
func (m *Manager) ActiveTables() []Snapshot {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.Tables))
	for _, t := range m.Tables {
		tables = append(tables, t)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CleanupIdleTables drops tables nobody has played on for longer than maxIdle
// and closes their sockets.
func (m *Manager) CleanupIdleTables(maxIdle time.Duration, notifier Notifier) int {
	now := time.Now()

	m.mu.Lock()
	var stale []string
	for tableID, t := range m.Tables {
		t.mu.Lock()
		idle := now.Sub(t.LastActivity)
		t.mu.Unlock()
		if idle > maxIdle {
			stale = append(stale, tableID)
			delete(m.Tables, tableID)
		}
	}
	m.mu.Unlock()

	for _, tableID := range stale {
		if notifier != nil {
			notifier.Broadcast(tableID, domain.ServerMessage{
				Type:    domain.MsgClosed,
				TableID: tableID,
				Message: "Table closed after inactivity",
			})
			notifier.CloseTable(tableID)
		}
	}

	if len(stale) > 0 {
		log.Printf("[TABLE] Memory cleanup: Removed %d idle tables", len(stale))
	}
	return len(stale)
}

// Wait blocks until every background archive write has finished
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Shutdown stops accepting archive writes and waits for the ones in flight.
// Games finished afterwards are still announced but not saved.
func (m *Manager) Shutdown() {
	m.archiveMu.Lock()
	m.closing = true
	m.archiveMu.Unlock()

	m.pending.Wait()
}

// archiveAsync saves the finished game without blocking the game_over frames
func (m *Manager) archiveAsync(result domain.GameResult) {
	if m.repo == nil && m.scores == nil {
		return
	}

	m.archiveMu.Lock()
	defer m.archiveMu.Unlock()
	if m.closing {
		log.Printf("[TABLE] Shutting down, game %d of table %s not archived", result.GameNumber, result.TableID)
		return
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if m.repo != nil {
			if err := m.repo.SaveResult(ctx, result); err != nil {
				log.Printf("[TABLE] Error saving game %d of table %s: %v", result.GameNumber, result.TableID, err)
			} else {
				log.Printf("[TABLE] Game %d of table %s saved successfully", result.GameNumber, result.TableID)
			}
		}

		if m.scores != nil {
			if err := m.scores.Record(ctx, result.Outcome, result.Winner); err != nil {
				log.Printf("[TABLE] Error updating scoreboard: %v", err)
			}
		}
	}()
}

func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		TableID:     t.ID,
		GameNumber:  t.GameNumber,
		Width:       t.Game.Board.Width(),
		Height:      t.Game.Board.Height(),
		Board:       t.Game.Board.Cells(),
		CurrentTurn: t.Game.CurrentPlayer(),
		Status:      t.Game.Status,
		Winner:      t.Game.Winner,
		MoveCount:   t.Game.MoveCount,
		Tally:       t.Tally,
		CreatedAt:   t.CreatedAt,
	}
}

// StartMessage describes the game currently on the table
func (t *Table) StartMessage() domain.ServerMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startMessageLocked()
}

func (t *Table) startMessageLocked() domain.ServerMessage {
	tally := t.Tally
	return domain.ServerMessage{
		Type:        domain.MsgGameStart,
		TableID:     t.ID,
		GameNumber:  t.GameNumber,
		Width:       t.Game.Board.Width(),
		Height:      t.Game.Board.Height(),
		Board:       t.Game.Board.Cells(),
		CurrentTurn: t.Game.CurrentPlayer(),
		Status:      t.Game.Status,
		Tally:       &tally,
	}
}

// HandleDrop plays the current player's piece into column. A full column is
// ignored without an error so a stray click does nothing.
func (t *Table) HandleDrop(column int, notifier Notifier) error {
	t.mu.Lock()

	res, err := t.Game.Drop(column)
	if errors.Is(err, domain.ErrColumnFull) {
		t.mu.Unlock()
		return nil
	}
	if err != nil {
		t.mu.Unlock()
		return err
	}

	t.LastActivity = time.Now()

	messages := []domain.ServerMessage{{
		Type:        domain.MsgMoveMade,
		TableID:     t.ID,
		GameNumber:  t.GameNumber,
		Move:        &res,
		Board:       t.Game.Board.Cells(),
		CurrentTurn: t.Game.CurrentPlayer(),
		Status:      res.Status,
		Winner:      res.Winner,
	}}

	if res.Status.IsTerminal() {
		messages = append(messages, t.finishGameLocked()...)
	}

	t.broadcastAndUnlock(notifier, messages)
	return nil
}

// broadcastAndUnlock releases t.mu before writing to sockets so a slow client
// cannot stall snapshots or the cleanup scan. Caller must hold t.mu.
func (t *Table) broadcastAndUnlock(notifier Notifier, messages []domain.ServerMessage) {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	t.mu.Unlock()

	for _, msg := range messages {
		notifier.Broadcast(t.ID, msg)
	}
}

// finishGameLocked records the result, archives it and deals a fresh board.
// It returns the game_over and game_start frames. Caller must hold t.mu.
func (t *Table) finishGameLocked() []domain.ServerMessage {
	finishedAt := time.Now()
	t.Tally.Record(t.Game.Status, t.Game.Winner)

	result := domain.GameResult{
		TableID:         t.ID,
		GameNumber:      t.GameNumber,
		Outcome:         t.Game.Status,
		Winner:          t.Game.Winner,
		TotalMoves:      t.Game.MoveCount,
		DurationSeconds: int(finishedAt.Sub(t.GameStartedAt).Seconds()),
		Board:           t.Game.Board.Cells(),
		StartedAt:       t.GameStartedAt,
		FinishedAt:      finishedAt,
	}

	message := "Tie"
	if result.Outcome == domain.StatusWon {
		message = fmt.Sprintf("Player %d won!", result.Winner)
	}
	log.Printf("[TABLE] Table %s game %d over: %s", t.ID, t.GameNumber, message)

	tally := t.Tally
	over := domain.ServerMessage{
		Type:       domain.MsgGameOver,
		TableID:    t.ID,
		GameNumber: t.GameNumber,
		Message:    message,
		Board:      result.Board,
		Status:     result.Outcome,
		Winner:     result.Winner,
		Tally:      &tally,
	}

	t.manager.archiveAsync(result)

	t.GameNumber++
	t.resetBoardLocked()
	return []domain.ServerMessage{over, t.startMessageLocked()}
}

func (t *Table) resetBoardLocked() {
	t.Game.Reset()
	t.GameStartedAt = time.Now()
}

// HandleRestart abandons the current game without archiving it. The game
// number is kept, so archived numbers stay contiguous.
func (t *Table) HandleRestart(notifier Notifier) {
	t.mu.Lock()

	log.Printf("[TABLE] Table %s restarted during game %d after %d moves", t.ID, t.GameNumber, t.Game.MoveCount)

	t.LastActivity = time.Now()
	t.resetBoardLocked()
	t.broadcastAndUnlock(notifier, []domain.ServerMessage{t.startMessageLocked()})
}
