package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string        // Path to certificate file (TLS disabled when empty)
	KeyPath  string        // Path to private key file
	Table    *urlmap.Table // Initial table (defaults to urlmap.Default())
}

// Server serves a namespace table over HTTP and WebSocket
type Server struct {
	config    *Config
	table     atomic.Pointer[urlmap.Table]
	tlsConfig *tls.Config
	upgrader  websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	wg           sync.WaitGroup
	mu           sync.Mutex
	activeConns  map[string]*websocket.Conn
	shuttingDown bool // set by Shutdown; no connection is tracked after it
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	s := &Server{
		config:      config,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Lookups are read-only public data; any origin may query them
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	table := config.Table
	if table == nil {
		table = urlmap.Default()
	}
	s.table.Store(table)

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         s.tlsConfig,
	}

	return s, nil
}

// Table returns the table currently being served
func (s *Server) Table() *urlmap.Table {
	return s.table.Load()
}

// Reload replaces the served table
func (s *Server) Reload(table *urlmap.Table) {
	if table == nil {
		return
	}
	old := s.table.Swap(table)
	logging.Info("Serving new table",
		zap.Int("previous_entries", old.Len()),
		zap.Int("entries", table.Len()),
	)
}

// Listen binds the listening socket. Start calls it if needed; calling it
// first lets the caller learn the bound address (e.g. when Port is 0).
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		zap.Int("entries", s.Table().Len()),
	)
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or the configured port before Listen
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return s.config.Port
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...", zap.Int("websocket_connections", s.GetActiveConnections()))

	err := s.httpServer.Shutdown(ctx)

	// Hijacked WebSocket connections are not tracked by http.Server
	s.mu.Lock()
	s.shuttingDown = true
	for addr, conn := range s.activeConns {
		logging.Debug("Closing WebSocket connection", zap.String("remote_addr", addr))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of open WebSocket connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

// trackConn registers conn with the shutdown wait group. It reports false
// once Shutdown has started, and the caller must then drop the connection.
func (s *Server) trackConn(remoteAddr string, conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shuttingDown {
		return false
	}
	s.activeConns[remoteAddr] = conn
	s.wg.Add(1)
	return true
}

func (s *Server) untrackConn(remoteAddr string) {
	s.mu.Lock()
	delete(s.activeConns, remoteAddr)
	s.mu.Unlock()
}
