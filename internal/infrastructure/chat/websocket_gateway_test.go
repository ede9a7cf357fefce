package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockCommandRouter struct {
	mock.Mock
}

func (m *MockCommandRouter) Route(ctx context.Context, identity domain.Identity, text string) (string, error) {
	args := m.Called(ctx, identity, text)
	return args.String(0), args.Error(1)
}

func newTestGateway(t *testing.T, router *MockCommandRouter) (*httptest.Server, string) {
	t.Helper()

	authService := services.NewAuthService(nil, "test-secret", time.Hour)
	token, err := authService.GenerateToken(301, "teacher_olga")
	assert.NoError(t, err)

	gateway := NewWebSocketGateway(router, authService, zap.NewNop().Sugar())
	server := httptest.NewServer(http.HandlerFunc(gateway.HandleWebSocket))
	t.Cleanup(server.Close)

	return server, token
}

func wsURL(server *httptest.Server, token string) string {
	url := strings.Replace(server.URL, "http://", "ws://", 1)
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestWebSocketGateway_MessageRoundTrip(t *testing.T) {
	router := new(MockCommandRouter)
	server, token := newTestGateway(t, router)

	router.On("Route", mock.Anything, domain.Identity(301), "/start").
		Return("Hello! Your role: teacher", nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	assert.NoError(t, err)
	defer conn.Close()

	err = conn.WriteJSON(InboundMessage{Type: "message", Text: "/start"})
	assert.NoError(t, err)

	var reply OutboundMessage
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	err = conn.ReadJSON(&reply)
	assert.NoError(t, err)
	assert.Equal(t, "reply", reply.Type)
	assert.Equal(t, "Hello! Your role: teacher", reply.Text)

	router.AssertExpectations(t)
}

func TestWebSocketGateway_RejectsMissingToken(t *testing.T) {
	router := new(MockCommandRouter)
	server, _ := newTestGateway(t, router)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)

	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestWebSocketGateway_RejectsForgedToken(t *testing.T) {
	router := new(MockCommandRouter)
	server, _ := newTestGateway(t, router)

	other := services.NewAuthService(nil, "other-secret", time.Hour)
	forged, err := other.GenerateToken(301, "teacher_olga")
	assert.NoError(t, err)

	_, resp, dialErr := websocket.DefaultDialer.Dial(wsURL(server, forged), nil)

	assert.Error(t, dialErr)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestWebSocketGateway_UnknownTypeGetsError(t *testing.T) {
	router := new(MockCommandRouter)
	server, token := newTestGateway(t, router)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	assert.NoError(t, err)
	defer conn.Close()

	err = conn.WriteJSON(InboundMessage{Type: "subscribe"})
	assert.NoError(t, err)

	var reply OutboundMessage
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	err = conn.ReadJSON(&reply)
	assert.NoError(t, err)
	assert.Equal(t, "error", reply.Type)
	router.AssertNotCalled(t, "Route", mock.Anything, mock.Anything, mock.Anything)
}
