package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/internal/domain"
	"github.com/iamasit07/connect4-hotseat/internal/service/table"
	"github.com/iamasit07/connect4-hotseat/pkg/auth"
	"github.com/iamasit07/connect4-hotseat/pkg/httputil"
)

type TableHandler struct {
	Tables       *table.Manager
	Notifier     table.Notifier
	JWTSecret    string
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewTableHandler(tables *table.Manager, notifier table.Notifier, jwtSecret string, tokenTTL time.Duration, secureCookie bool) *TableHandler {
	return &TableHandler{
		Tables:       tables,
		Notifier:     notifier,
		JWTSecret:    jwtSecret,
		TokenTTL:     tokenTTL,
		SecureCookie: secureCookie,
	}
}

type createTableResponse struct {
	TableID string `json:"tableId"`
	Token   string `json:"token"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// CreateTable opens a fresh hot-seat table and hands out its token
func (h *TableHandler) CreateTable(c *gin.Context) {
	t, err := h.Tables.CreateTable()
	if err != nil {
		log.Printf("[HTTP] Failed to create table: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
		return
	}

	token, err := auth.GenerateTableToken(t.ID, h.JWTSecret, h.TokenTTL)
	if err != nil {
		log.Printf("[HTTP] Failed to sign token for table %s: %v", t.ID, err)
		h.Tables.RemoveTable(t.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
		return
	}

	httputil.SetTableCookie(c.Writer, token, h.TokenTTL, h.SecureCookie)

	width, height := h.Tables.Dimensions()
	c.JSON(http.StatusCreated, createTableResponse{
		TableID: t.ID,
		Token:   token,
		Width:   width,
		Height:  height,
	})
}

// GetTable returns the live board of a table
func (h *TableHandler) GetTable(c *gin.Context) {
	t, exists := h.Tables.GetTable(c.Param("id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	c.JSON(http.StatusOK, t.Snapshot())
}

// CloseTable removes a table for good
func (h *TableHandler) CloseTable(c *gin.Context) {
	tableID := c.Param("id")
	if err := h.Tables.RemoveTable(tableID); err != nil {
		if errors.Is(err, table.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close table"})
		return
	}

	if h.Notifier != nil {
		h.Notifier.Broadcast(tableID, domain.ServerMessage{Type: domain.MsgClosed, TableID: tableID, Message: "Table closed"})
		h.Notifier.CloseTable(tableID)
	}

	httputil.ClearTableCookie(c.Writer)
	c.Status(http.StatusNoContent)
}

type liveTableResponse struct {
	TableID     string `json:"tableId"`
	GameNumber  int    `json:"gameNumber"`
	MoveCount   int    `json:"moveCount"`
	CurrentTurn int    `json:"currentTurn"`
	CreatedAt   string `json:"createdAt"`
}

// ListTables returns every open table without board contents
func (h *TableHandler) ListTables(c *gin.Context) {
	active := h.Tables.ActiveTables()

	response := make([]liveTableResponse, 0, len(active))
	for _, s := range active {
		response = append(response, liveTableResponse{
			TableID:     s.TableID,
			GameNumber:  s.GameNumber,
			MoveCount:   s.MoveCount,
			CurrentTurn: int(s.CurrentTurn),
			CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}
