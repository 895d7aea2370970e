package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/links"
	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// LookupRequest is a WebSocket query. Exactly one of Namespace or Ref is set.
type LookupRequest struct {
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Ref       string `json:"ref,omitempty"`
}

// LookupReply answers a LookupRequest with the same ID
type LookupReply struct {
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
	NotFound  bool   `json:"not_found,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := r.RemoteAddr
	if !s.trackConn(remoteAddr, conn) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer func() {
		_ = conn.Close()
		s.untrackConn(remoteAddr)
		s.wg.Done()
		logging.Debug("WebSocket closed", zap.String("remote_addr", remoteAddr))
	}()

	logging.Debug("WebSocket opened", zap.String("remote_addr", remoteAddr))
	s.serveWebSocket(conn, remoteAddr)
}

// serveWebSocket answers lookups until the peer goes away
func (s *Server) serveWebSocket(conn *websocket.Conn, remoteAddr string) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("WebSocket read failed",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		logging.LogWebSocketMessage(remoteAddr, "received", data)

		reply := s.answer(data)
		out, err := json.Marshal(reply)
		if err != nil {
			logging.Error("Failed to encode WebSocket reply", zap.Error(err))
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			logging.Info("WebSocket write failed",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
		logging.LogWebSocketMessage(remoteAddr, "sent", out)
	}
}

// keepAlive pings the peer until done is closed.
// WriteControl may run concurrently with the reader loop's writes.
func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// answer handles one request payload against the current table
func (s *Server) answer(data []byte) LookupReply {
	var req LookupRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return LookupReply{Error: "invalid request: " + err.Error()}
	}

	table := s.Table()
	reply := LookupReply{ID: req.ID}

	switch {
	case req.Namespace != "" && req.Ref != "":
		reply.Error = "request must set namespace or ref, not both"

	case req.Ref != "":
		url, err := links.NewResolver(table).Resolve(req.Ref)
		if err != nil {
			reply.Error = err.Error()
			reply.NotFound = errors.Is(err, urlmap.ErrNotFound)
			break
		}
		reply.URL = url

	case req.Namespace != "":
		reply.Namespace = req.Namespace
		url, err := table.Lookup(req.Namespace)
		logging.LogLookup(req.Namespace, url, err)
		if err != nil {
			reply.Error = err.Error()
			reply.NotFound = errors.Is(err, urlmap.ErrNotFound)
			break
		}
		reply.URL = url

	default:
		reply.Error = "request must set namespace or ref"
	}

	return reply
}
