package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pokerhall/holdem/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps a websocket client and the seat it occupies.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	playerID  string
	tableID   string
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for delivery to the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the seated player's ID, empty before joining.
func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// TableID returns the table this connection joined, empty before joining.
func (c *Connection) TableID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableID
}

func (c *Connection) setSeat(tableID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableID = tableID
	c.playerID = playerID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() {
		c.server.disconnect(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes an incoming message from the client.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case TypeJoin:
		var req JoinRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("failed to parse join request")
			return
		}
		c.handleJoin(req)

	case TypeLeave:
		c.handleLeave()

	case TypeStartRound:
		c.handleStartRound()

	case TypeAction:
		var req ActionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("failed to parse action request")
			return
		}
		c.handleAction(req)

	case TypeListTables:
		c.handleListTables()

	default:
		c.sendError("unknown message type: " + string(msg.Type))
	}
}

func (c *Connection) handleJoin(req JoinRequest) {
	if c.PlayerID() != "" {
		c.sendError("already seated")
		return
	}
	if req.PlayerName == "" {
		c.sendError("player name is required")
		return
	}

	chips := req.Chips
	if chips <= 0 {
		chips = c.server.defaultChips
	}

	tableID := c.server.registry.Create(req.TableID).ID()
	playerID := uuid.NewString()

	err := c.server.registry.With(tableID, func(session *game.Session) error {
		_, err := session.AddPlayer(playerID, req.PlayerName, chips)
		return err
	})
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.setSeat(tableID, playerID)
	c.server.registerSeat(c)

	resp, err := NewMessage(TypeJoined, JoinedResponse{
		TableID:  tableID,
		PlayerID: playerID,
		Chips:    chips,
	})
	if err != nil {
		c.logger.Error("Failed to create joined message", "error", err)
		return
	}
	_ = c.SendMessage(resp)
}

func (c *Connection) handleLeave() {
	tableID, playerID := c.TableID(), c.PlayerID()
	if playerID == "" {
		c.sendError("not seated at a table")
		return
	}

	c.server.disconnect(c)
	c.setSeat("", "")

	c.logger.Info("Player left table", "table", tableID, "player", playerID)
}

func (c *Connection) handleStartRound() {
	tableID := c.TableID()
	if tableID == "" {
		c.sendError("not seated at a table")
		return
	}

	err := c.server.registry.With(tableID, func(session *game.Session) error {
		return session.StartRound()
	})
	if err != nil {
		c.sendError(err.Error())
	}
}

func (c *Connection) handleAction(req ActionRequest) {
	tableID, playerID := c.TableID(), c.PlayerID()
	if playerID == "" {
		c.sendError("not seated at a table")
		return
	}

	action, err := game.ParseAction(req.Action)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	err = c.server.registry.With(tableID, func(session *game.Session) error {
		return session.HandleAction(playerID, action, req.Amount)
	})
	if err != nil {
		c.sendError(err.Error())
	}
}

func (c *Connection) handleListTables() {
	resp, err := NewMessage(TypeTables, TablesResponse{Tables: c.server.tableSummaries()})
	if err != nil {
		c.logger.Error("Failed to create tables message", "error", err)
		return
	}
	_ = c.SendMessage(resp)
}

// sendError sends an error message to the client.
func (c *Connection) sendError(message string) {
	errMsg, err := NewMessage(TypeError, ErrorResponse{Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errMsg)
}
