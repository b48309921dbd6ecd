package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-hotseat/internal/domain"
)

const writeWait = 10 * time.Second

// client wraps a socket with its own write lock; WriteJSON is not safe for
// concurrent use.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) send(message domain.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

// ConnectionManager tracks the sockets attached to each table
type ConnectionManager struct {
	tables map[string]map[*websocket.Conn]*client
	mu     sync.RWMutex // Protects the map itself
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		tables: make(map[string]map[*websocket.Conn]*client),
	}
}

func (cm *ConnectionManager) AddConnection(tableID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, exists := cm.tables[tableID]
	if !exists {
		clients = make(map[*websocket.Conn]*client)
		cm.tables[tableID] = clients
	}
	clients[conn] = &client{conn: conn}
}

// RemoveConnection closes conn and forgets it; the table entry goes away with its last socket
func (cm *ConnectionManager) RemoveConnection(tableID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, exists := cm.tables[tableID]
	if !exists {
		return
	}
	if _, ok := clients[conn]; ok {
		conn.Close()
		delete(clients, conn)
	}
	if len(clients) == 0 {
		delete(cm.tables, tableID)
	}
}

func (cm *ConnectionManager) ConnectionCount(tableID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.tables[tableID])
}

func (cm *ConnectionManager) clientsFor(tableID string) []*client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	clients := make([]*client, 0, len(cm.tables[tableID]))
	for _, c := range cm.tables[tableID] {
		clients = append(clients, c)
	}
	return clients
}

// SendMessage writes to a single socket of the table
func (cm *ConnectionManager) SendMessage(tableID string, conn *websocket.Conn, message domain.ServerMessage) error {
	cm.mu.RLock()
	c, exists := cm.tables[tableID][conn]
	cm.mu.RUnlock()

	if !exists {
		return nil // already disconnected, ignore
	}
	return c.send(message)
}

// Broadcast sends message to every socket watching the table
func (cm *ConnectionManager) Broadcast(tableID string, message domain.ServerMessage) {
	for _, c := range cm.clientsFor(tableID) {
		if err := c.send(message); err != nil {
			log.Printf("[WS] Broadcast to table %s failed: %v", tableID, err)
		}
	}
}

// CloseTable disconnects every socket of the table
func (cm *ConnectionManager) CloseTable(tableID string) {
	cm.mu.Lock()
	clients := cm.tables[tableID]
	delete(cm.tables, tableID)
	cm.mu.Unlock()

	for conn := range clients {
		conn.Close()
	}
}

// CloseAll tells every connected socket the server is going away and closes it
func (cm *ConnectionManager) CloseAll(reason string) int {
	cm.mu.Lock()
	tables := cm.tables
	cm.tables = make(map[string]map[*websocket.Conn]*client)
	cm.mu.Unlock()

	closed := 0
	for tableID, clients := range tables {
		for conn, c := range clients {
			if err := c.send(domain.ServerMessage{Type: domain.MsgClosed, TableID: tableID, Message: reason}); err != nil {
				log.Printf("[WS] Close notice to table %s failed: %v", tableID, err)
			}
			conn.Close()
			closed++
		}
	}
	return closed
}
