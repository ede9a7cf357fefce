package chat

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/internal/core/services"
	"confbot/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketGateway is the interactive chat transport. Each connection is
// authenticated once with a session token and then exchanges plain messages:
// inbound {"type":"message","text":...}, outbound {"type":"reply","text":...}.
type WebSocketGateway struct {
	router ports.CommandRouter
	auth   *services.AuthService

	connections map[domain.Identity]*websocket.Conn
	mu          sync.RWMutex

	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	logger *zap.SugaredLogger
}

type InboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type OutboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func NewWebSocketGateway(router ports.CommandRouter, auth *services.AuthService, log *zap.SugaredLogger) *WebSocketGateway {
	return &WebSocketGateway{
		router:       router,
		auth:         auth,
		connections:  make(map[domain.Identity]*websocket.Conn),
		pingInterval: 30 * time.Second,
		readTimeout:  60 * time.Second,
		writeTimeout: 10 * time.Second,
		logger:       log,
	}
}

// SetPingInterval overrides the keepalive ping interval.
func (g *WebSocketGateway) SetPingInterval(interval time.Duration) {
	g.pingInterval = interval
}

func (g *WebSocketGateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token query parameter required", http.StatusUnauthorized)
		return
	}
	claims, err := g.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	identity := claims.Identity

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// A reconnecting identity displaces its previous connection.
	g.mu.Lock()
	existingConn, isReconnect := g.connections[identity]
	if isReconnect && existingConn != nil {
		existingConn.Close()
		g.logger.Infow("closing old connection for reconnecting identity", "identity", identity)
	}
	g.connections[identity] = conn
	g.mu.Unlock()

	g.logger.Infow("chat connected", "identity", identity, "reconnect", isReconnect)

	conn.SetReadDeadline(time.Now().Add(g.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(g.readTimeout))
		return nil
	})

	pingTicker := time.NewTicker(g.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan InboundMessage, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var msg InboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(g.readTimeout))
			messageChan <- msg
		}
	}()

	for {
		select {
		case msg := <-messageChan:
			if err := g.handleMessage(r.Context(), identity, conn, msg); err != nil {
				g.logger.Infow("error handling chat message", "identity", identity, "error", err)
				g.sendError(conn, "something went wrong, please try again")
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				g.logger.Infow("error sending ping", "identity", identity, "error", err)
				goto cleanup
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				g.logger.Infow("error reading chat message", "identity", identity, "error", err)
			}
			goto cleanup
		}
	}

cleanup:
	g.mu.Lock()
	// Only remove the entry if it is still ours; a reconnect may have
	// replaced it already.
	if g.connections[identity] == conn {
		delete(g.connections, identity)
	}
	g.mu.Unlock()

	g.logger.Infow("chat disconnected", "identity", identity)
}

func (g *WebSocketGateway) handleMessage(ctx context.Context, identity domain.Identity, conn *websocket.Conn, msg InboundMessage) error {
	if msg.Type != "message" {
		return fmt.Errorf("unknown message type: %q", msg.Type)
	}
	if msg.Text == "" {
		return fmt.Errorf("text is required")
	}

	ctx = logger.WithIdentity(ctx, int64(identity))
	ctx = logger.WithRequestID(ctx, uuid.New().String())

	reply, err := g.router.Route(ctx, identity, msg.Text)
	if err != nil {
		return fmt.Errorf("route message: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(g.writeTimeout))
	return conn.WriteJSON(OutboundMessage{Type: "reply", Text: reply})
}

func (g *WebSocketGateway) sendError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	conn.WriteJSON(OutboundMessage{Type: "error", Text: message})
}

// Notify pushes a one-way message to identity, if connected.
func (g *WebSocketGateway) Notify(identity domain.Identity, text string) error {
	g.mu.RLock()
	conn, exists := g.connections[identity]
	g.mu.RUnlock()

	if !exists {
		return fmt.Errorf("identity %d not connected", identity)
	}

	conn.SetWriteDeadline(time.Now().Add(g.writeTimeout))
	return conn.WriteJSON(OutboundMessage{Type: "notice", Text: text})
}

// ConnectedCount reports how many chat connections are open.
func (g *WebSocketGateway) ConnectedCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}
