package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iamasit07/connect4-hotseat/internal/domain"
	"github.com/redis/go-redis/v9"
)

const ScoreboardKey = "connect4:scoreboard"

const (
	fieldPlayer1 = "player1"
	fieldPlayer2 = "player2"
	fieldDraw    = "draw"
)

// Scoreboard keeps outcome counters for every table served by any instance
type Scoreboard struct {
	client *redis.Client
	key    string
}

func NewScoreboard(client *redis.Client) *Scoreboard {
	return &Scoreboard{client: client, key: ScoreboardKey}
}

// Record bumps the counter matching a finished game
func (s *Scoreboard) Record(ctx context.Context, status domain.GameStatus, winner domain.PlayerID) error {
	var field string
	switch {
	case status == domain.StatusDraw:
		field = fieldDraw
	case status == domain.StatusWon && winner == domain.Player1:
		field = fieldPlayer1
	case status == domain.StatusWon && winner == domain.Player2:
		field = fieldPlayer2
	default:
		return fmt.Errorf("cannot record outcome %q with winner %d", status, winner)
	}

	if err := s.client.HIncrBy(ctx, s.key, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return nil
}

// Totals reads all counters; missing fields count as zero
func (s *Scoreboard) Totals(ctx context.Context) (domain.Tally, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Tally{}, fmt.Errorf("failed to read scoreboard: %w", err)
	}

	var tally domain.Tally
	for field, dst := range map[string]*int{
		fieldPlayer1: &tally.Player1Wins,
		fieldPlayer2: &tally.Player2Wins,
		fieldDraw:    &tally.Draws,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Tally{}, fmt.Errorf("corrupt scoreboard field %s=%q: %w", field, raw, err)
		}
		*dst = n
	}
	return tally, nil
}
