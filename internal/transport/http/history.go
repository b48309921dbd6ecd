package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type ResultReader interface {
	GetResult(ctx context.Context, tableID string, gameNumber int) (*domain.GameResult, error)
	ListByTable(ctx context.Context, tableID string) ([]domain.GameResult, error)
	ListRecent(ctx context.Context, limit int) ([]domain.GameResult, error)
}

type TotalsReader interface {
	Totals(ctx context.Context) (domain.Tally, error)
}

// HistoryHandler serves the result archive and the global scoreboard.
// Either dependency may be nil when that backend is disabled.
type HistoryHandler struct {
	Results ResultReader
	Scores  TotalsReader
}

func NewHistoryHandler(results ResultReader, scores TotalsReader) *HistoryHandler {
	return &HistoryHandler{Results: results, Scores: scores}
}

func archiveDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game archive is disabled"})
}

// GetTableHistory lists the finished games of one table
func (h *HistoryHandler) GetTableHistory(c *gin.Context) {
	if h.Results == nil {
		archiveDisabled(c)
		return
	}

	results, err := h.Results.ListByTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[HTTP] Failed to fetch history for table %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetGameDetails returns one archived game including its final board
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Results == nil {
		archiveDisabled(c)
		return
	}

	gameNumber, err := strconv.Atoi(c.Param("game"))
	if err != nil || gameNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game number"})
		return
	}

	result, err := h.Results.GetResult(c.Request.Context(), c.Param("id"), gameNumber)
	if err != nil {
		log.Printf("[HTTP] Failed to fetch game %d of table %s: %v", gameNumber, c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecent lists the latest finished games across all tables
func (h *HistoryHandler) GetRecent(c *gin.Context) {
	if h.Results == nil {
		archiveDisabled(c)
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxRecentLimit)
	}

	results, err := h.Results.ListRecent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[HTTP] Failed to fetch recent games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent games"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetScoreboard returns outcome totals over every table
func (h *HistoryHandler) GetScoreboard(c *gin.Context) {
	if h.Scores == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scoreboard is disabled"})
		return
	}

	tally, err := h.Scores.Totals(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Failed to read scoreboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read scoreboard"})
		return
	}

	c.JSON(http.StatusOK, tally)
}
