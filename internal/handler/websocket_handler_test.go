package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/tallerhq/taller-backend/internal/websocket"
)

// mockTokenValidator is a test double for handshake token validation
type mockTokenValidator struct {
	userID uuid.UUID
	err    error
}

func (m *mockTokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	return m.userID, m.err
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://taller.app"}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	validator := &mockTokenValidator{userID: uuid.New()}
	h := NewWebSocketHandler(hub, validator, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	validator := &mockTokenValidator{err: echo.NewHTTPError(http.StatusUnauthorized, "invalid token")}
	h := NewWebSocketHandler(hub, validator, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=invalid-jwt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	validator := &mockTokenValidator{userID: uuid.New()}
	h := NewWebSocketHandler(hub, validator, testAllowedOrigins)

	// Valid token but not a WebSocket upgrade request: auth passes, the
	// upgrade itself fails
	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid-jwt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}
