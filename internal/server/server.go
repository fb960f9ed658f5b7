package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/verdantgames/arbor/internal/core/agent"
	"github.com/verdantgames/arbor/internal/core/observability/log"
	"github.com/verdantgames/arbor/pkg/generic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server exposes agent snapshots to debugging clients: a JSON dump over
// plain HTTP and a periodic stream over websocket. It is read-only; it
// never mutates agent state.
type Server struct {
	manager  *agent.Manager
	logger   log.Log
	interval time.Duration

	httpServer *http.Server
	bufs       *generic.Pool[*bytes.Buffer]

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a debug server streaming snapshots every interval
func New(addr string, manager *agent.Manager, interval time.Duration, logger log.Log) *Server {
	s := &Server{
		manager:  manager,
		logger:   logger,
		interval: interval,
		bufs:     generic.NewPool(func() *bytes.Buffer { return &bytes.Buffer{} }),
		clients:  make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/agents", s.handleAgents)
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start serves until the listener fails or Stop is called
func (s *Server) Start(ctx context.Context) error {
	go s.broadcast(ctx)

	s.logger.Info("debug server listening", log.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.manager.Snapshots()); err != nil {
		s.logger.Warn("snapshot encode failed", log.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("inspector connected", log.String("remote", conn.RemoteAddr().String()))

	// drain the read side so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Server) broadcast(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(s.clients))
		for conn := range s.clients {
			conns = append(conns, conn)
		}
		s.mu.Unlock()

		if len(conns) == 0 {
			continue
		}

		buf := s.bufs.Get()
		buf.Reset()
		if err := json.NewEncoder(buf).Encode(s.manager.Snapshots()); err != nil {
			s.logger.Warn("snapshot encode failed", log.Error(err))
			s.bufs.Put(buf)
			continue
		}

		for _, conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
				s.drop(conn)
			}
		}
		s.bufs.Put(buf)
	}
}
