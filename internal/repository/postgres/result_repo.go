package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4-hotseat/internal/domain"
)

type ResultRepo struct {
	DB *sql.DB
}

func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{DB: db}
}

const resultColumns = `table_id, game_number, outcome, winner, total_moves, duration_seconds, board_state, started_at, finished_at`

// SaveResult archives a finished game. Saving the same game twice keeps the latest copy.
func (r *ResultRepo) SaveResult(ctx context.Context, result domain.GameResult) error {
	boardJSON, err := json.Marshal(result.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	var winner interface{}
	if result.Winner != domain.Empty {
		winner = int(result.Winner)
	}

	query := `
	INSERT INTO game_result (` + resultColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (table_id, game_number) DO UPDATE SET
		outcome = EXCLUDED.outcome,
		winner = EXCLUDED.winner,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		result.TableID, result.GameNumber, string(result.Outcome), winner,
		result.TotalMoves, result.DurationSeconds, boardJSON,
		result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game result: %w", err)
	}
	return nil
}

// GetResult returns nil, nil when the game was never archived
func (r *ResultRepo) GetResult(ctx context.Context, tableID string, gameNumber int) (*domain.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_result WHERE table_id = $1 AND game_number = $2;`

	result, err := scanResult(r.DB.QueryRowContext(ctx, query, tableID, gameNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}
	return result, nil
}

// ListByTable returns every archived game of a table, oldest first
func (r *ResultRepo) ListByTable(ctx context.Context, tableID string) ([]domain.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_result WHERE table_id = $1 ORDER BY game_number ASC;`
	return r.list(ctx, query, tableID)
}

// ListRecent returns the latest finished games across all tables
func (r *ResultRepo) ListRecent(ctx context.Context, limit int) ([]domain.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_result ORDER BY finished_at DESC LIMIT $1;`
	return r.list(ctx, query, limit)
}

func (r *ResultRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.GameResult, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	results := []domain.GameResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result row: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*domain.GameResult, error) {
	var result domain.GameResult
	var outcome string
	var winner sql.NullInt64
	var boardJSON []byte

	err := row.Scan(
		&result.TableID,
		&result.GameNumber,
		&outcome,
		&winner,
		&result.TotalMoves,
		&result.DurationSeconds,
		&boardJSON,
		&result.StartedAt,
		&result.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Outcome = domain.GameStatus(outcome)
	if winner.Valid {
		result.Winner = domain.PlayerID(winner.Int64)
	}
	if len(boardJSON) > 0 {
		if err := json.Unmarshal(boardJSON, &result.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return &result, nil
}
