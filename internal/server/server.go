package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pokerhall/holdem/internal/game"
)

// Chips handed to a player that joins without specifying a buy-in.
const defaultChips = 1000

// Server hosts the websocket transport and the REST API in front of
// the table registry.
type Server struct {
	cfg          *Config
	registry     *Registry
	scheduler    *Scheduler
	upgrader     websocket.Upgrader
	logger       *log.Logger
	httpServer   *http.Server
	defaultChips int

	connections map[*Connection]bool
	seats       map[string]map[string]*Connection // tableID -> playerID -> conn
	register    chan *Connection
	unregister  chan *Connection
	mu          sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server wired to a fresh in-memory registry.
func NewServer(cfg *Config, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:       logger.WithPrefix("server"),
		defaultChips: defaultChips,
		connections:  make(map[*Connection]bool),
		seats:        make(map[string]map[string]*Connection),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		ctx:          ctx,
		cancel:       cancel,
	}

	s.registry = NewRegistry(NewMemoryStore(), cfg.Rules(), logger, func(tableID string) game.Sink {
		return &broadcaster{server: s, tableID: tableID}
	})
	s.scheduler = NewScheduler(s.registry, cfg.RoundDelay(), logger)

	return s
}

// Registry exposes the table registry, mainly for tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.GET("/ws", s.handleWebSocket)

	api := router.Group("/api")
	{
		api.GET("/tables", s.handleListTables)
		api.POST("/tables", s.handleCreateTable)
		api.GET("/tables/:id", s.handleGetTable)
		api.DELETE("/tables/:id", s.handleDeleteTable)
	}

	return router
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go s.run()

	s.httpServer = &http.Server{
		Addr:    s.cfg.ListenAddress(),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.cfg.ListenAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop shuts the server down and closes all connections.
func (s *Server) Stop() error {
	s.cancel()
	s.scheduler.StopAll()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.disconnect(conn)
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// register seats a joined connection so table broadcasts reach it.
func (s *Server) registerSeat(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tableID, playerID := c.TableID(), c.PlayerID()
	if s.seats[tableID] == nil {
		s.seats[tableID] = make(map[string]*Connection)
	}
	s.seats[tableID][playerID] = c
}

// disconnect removes a connection's seat from its table, folding the
// player out of any round in progress. Safe to call more than once.
func (s *Server) disconnect(c *Connection) {
	tableID, playerID := c.TableID(), c.PlayerID()
	if tableID == "" || playerID == "" {
		return
	}

	s.mu.Lock()
	if seats, ok := s.seats[tableID]; ok {
		delete(seats, playerID)
		if len(seats) == 0 {
			delete(s.seats, tableID)
		}
	}
	s.mu.Unlock()

	err := s.registry.With(tableID, func(session *game.Session) error {
		session.RemovePlayer(playerID)
		return nil
	})
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.logger.Error("Failed to remove disconnected player", "table", tableID, "player", playerID, "error", err)
	}
}

// BroadcastToTable sends a message to every connection seated at a table.
func (s *Server) BroadcastToTable(tableID string, msg *Message) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.seats[tableID]))
	for _, conn := range s.seats[tableID] {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.SendMessage(msg)
	}
}

// SendToPlayer sends a message to a single seated player.
func (s *Server) SendToPlayer(tableID, playerID string, msg *Message) {
	s.mu.RLock()
	conn := s.seats[tableID][playerID]
	s.mu.RUnlock()

	if conn != nil {
		_ = conn.SendMessage(msg)
	}
}

func (s *Server) tableSummaries() []TableSummary {
	snapshots := s.registry.Snapshots()
	summaries := make([]TableSummary, 0, len(snapshots))
	for _, snap := range snapshots {
		summaries = append(summaries, TableSummary{
			TableID: snap.SessionID,
			Phase:   snap.Phase,
			Players: len(snap.Seats),
			Pot:     snap.Pot,
		})
	}
	return summaries
}

// handleWebSocket upgrades the request and starts the pumps.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListTables(c *gin.Context) {
	c.JSON(http.StatusOK, TablesResponse{Tables: s.tableSummaries()})
}

func (s *Server) handleCreateTable(c *gin.Context) {
	session := s.registry.Create("")
	c.JSON(http.StatusCreated, gin.H{"table_id": session.ID()})
}

func (s *Server) handleGetTable(c *gin.Context) {
	snap, err := s.registry.Snapshot(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDeleteTable(c *gin.Context) {
	if !s.registry.Destroy(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: ErrSessionNotFound.Error()})
		return
	}
	s.scheduler.Cancel(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// broadcaster routes engine events for one table out over the
// websocket layer, keeping hole cards private to their recipient.
type broadcaster struct {
	server  *Server
	tableID string
}

func (b *broadcaster) Publish(ev game.Event) {
	msg, err := EventMessage(ev)
	if err != nil {
		b.server.logger.Error("Failed to encode event", "type", ev.Type(), "error", err)
		return
	}

	if private, ok := ev.(game.PrivateEvent); ok {
		b.server.SendToPlayer(b.tableID, private.Recipient(), msg)
	} else {
		b.server.BroadcastToTable(b.tableID, msg)
	}

	// Published once the table can seat another round; the scheduler
	// re-checks eligibility when the timer fires.
	if _, ok := ev.(game.ReadyForNextRound); ok {
		b.server.scheduler.Schedule(b.tableID)
	}
}
