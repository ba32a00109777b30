package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"trade-relay/src/feed"
	"trade-relay/src/logger"
	"trade-relay/src/models"
	"trade-relay/src/registry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Server owns the websocket endpoint and every live connection. Registry
// mutation happens inside message handling; connection add/remove flows
// through the register/unregister channels so there is a single owner for
// the client set.
// -----------------------------------------------------------------------------

type Server struct {
	Config *models.MConfig
	Logger *logger.Logger

	Registry *registry.Registry
	Replayer *feed.Replayer
	Metrics  *feed.Metrics

	engine  *gin.Engine
	httpSrv *http.Server

	clientsMu sync.RWMutex
	clients   map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewServer(cfg *models.MConfig, l *logger.Logger, reg *registry.Registry, replayer *feed.Replayer, metrics *feed.Metrics) *Server {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Config:     cfg,
		Logger:     l,
		Registry:   reg,
		Replayer:   replayer,
		Metrics:    metrics,
		engine:     gin.Default(),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/metrics", s.getMetrics)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleConnections()

	s.httpSrv = &http.Server{Addr: addr, Handler: s.engine}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop closes every live connection and shuts the HTTP listener down.
// In-flight sends during shutdown are allowed to fail silently.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		s.clientsMu.Lock()
		for client := range s.clients {
			s.Registry.Drop(client)
			client.closeSend()
			client.conn.Close()
			delete(s.clients, client)
		}
		s.clientsMu.Unlock()

		if s.httpSrv != nil {
			err = s.httpSrv.Shutdown(ctx)
		}
		s.Logger.Info("Server stopped")
	})
	return err
}

// -----------------------------------------------------------------------------
// Connection set ownership loop
// -----------------------------------------------------------------------------

func (s *Server) handleConnections() {
	for {
		select {
		case <-s.done:
			return

		case client := <-s.register:
			s.clientsMu.Lock()
			s.clients[client] = struct{}{}
			total := len(s.clients)
			s.clientsMu.Unlock()
			s.Logger.Info("Client %s connected. Total clients: %d", client.ID(), total)

		case client := <-s.unregister:
			s.clientsMu.Lock()
			_, known := s.clients[client]
			if known {
				delete(s.clients, client)
			}
			total := len(s.clients)
			s.clientsMu.Unlock()

			if known {
				// The guaranteed cleanup path: a closed connection leaves
				// every registry structure, no matter how it closed.
				s.Registry.Drop(client)
				client.closeSend()
				s.Logger.Info("Client %s disconnected. Total clients: %d", client.ID(), total)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket handshake
// -----------------------------------------------------------------------------

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade websocket: %v", err)
		return
	}

	client := newClient(s, conn)

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// HTTP handlers
// -----------------------------------------------------------------------------

func (s *Server) getHealth(c *gin.Context) {
	s.clientsMu.RLock()
	connections := len(s.clients)
	s.clientsMu.RUnlock()

	c.JSON(200, gin.H{
		"status":          "ok",
		"connections":     connections,
		"watched_symbols": s.Registry.SymbolCount(),
		"trade_feeds":     s.Registry.TradeSubscriberCount(),
	})
}

// -----------------------------------------------------------------------------

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(200, s.Metrics.Snapshot())
}
