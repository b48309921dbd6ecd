package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-hotseat/internal/domain"
	"github.com/iamasit07/connect4-hotseat/internal/service/table"
	"github.com/iamasit07/connect4-hotseat/pkg/auth"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	Tables      *table.Manager
	JWTSecret   string
	Upgrader    websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Browsers from origins outside
// allowedOrigins are refused during the upgrade.
func NewHandler(cm *ConnectionManager, tables *table.Manager, jwtSecret string, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager: cm,
		Tables:      tables,
		JWTSecret:   jwtSecret,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin {
						return true
					}
				}
				log.Printf("[WS] Rejected origin %s", origin)
				return false
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades the connection and serves one table seat
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)

	// Keep-alive pinger; WriteControl may run alongside other writers
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	// 1. Wait for initialization
	t, err := h.initialize(conn)
	if err != nil {
		log.Printf("[WS] Init failed: %v", err)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(domain.ServerMessage{Type: domain.MsgError, Message: err.Error()})
		conn.Close()
		return
	}

	h.ConnManager.AddConnection(t.ID, conn)
	log.Printf("[WS] Connection joined table %s", t.ID)

	// 2. Cleanup on exit
	defer func() {
		log.Printf("[WS] Connection left table %s", t.ID)
		h.ConnManager.RemoveConnection(t.ID, conn)
	}()

	h.ConnManager.SendMessage(t.ID, conn, t.StartMessage())

	// 3. Main message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Table %s disconnected unexpectedly: %v", t.ID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.ConnManager.SendMessage(t.ID, conn, domain.ServerMessage{Type: domain.MsgError, Message: "Invalid message format"})
			continue
		}

		// the table may have been closed by the cleanup worker
		if _, exists := h.Tables.GetTable(t.ID); !exists {
			h.ConnManager.SendMessage(t.ID, conn, domain.ServerMessage{Type: domain.MsgClosed, TableID: t.ID, Message: "Table no longer exists"})
			return
		}

		h.processMessage(t, conn, msg)
	}
}

var (
	errMissingInit   = errors.New("first message must be init with a table token")
	errNoTable       = errors.New("table not found")
	errMissingColumn = errors.New("drop requires a column")
)

func (h *Handler) initialize(conn *websocket.Conn) (*table.Table, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, errMissingInit
	}

	if message.Type != domain.MsgInit || message.Token == "" || message.TableID == "" {
		return nil, errMissingInit
	}

	if err := auth.AuthorizeTable(message.Token, message.TableID, h.JWTSecret); err != nil {
		return nil, errors.New("invalid or expired table token")
	}

	t, exists := h.Tables.GetTable(message.TableID)
	if !exists {
		return nil, errNoTable
	}
	return t, nil
}

// processMessage routes specific actions
func (h *Handler) processMessage(t *table.Table, conn *websocket.Conn, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgDrop:
		if msg.Column == nil {
			h.ConnManager.SendMessage(t.ID, conn, domain.ServerMessage{Type: domain.MsgError, Message: errMissingColumn.Error()})
			return
		}
		if err := t.HandleDrop(*msg.Column, h.ConnManager); err != nil {
			h.ConnManager.SendMessage(t.ID, conn, domain.ServerMessage{Type: domain.MsgError, Message: err.Error()})
		}

	case domain.MsgRestart:
		t.HandleRestart(h.ConnManager)

	default:
		h.ConnManager.SendMessage(t.ID, conn, domain.ServerMessage{Type: domain.MsgError, Message: "Unknown message type: " + msg.Type})
	}
}
