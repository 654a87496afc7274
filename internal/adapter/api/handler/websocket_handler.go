package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"chatspace/internal/infrastructure/auth"
	ws "chatspace/internal/infrastructure/websocket"
	"chatspace/pkg/errors"
	"chatspace/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	tokens    *auth.TokenService
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once the client domain is fixed
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, tokens *auth.TokenService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		tokens:    tokens,
	}
}

// HandleWebSocket authenticates via the token query parameter (browsers
// cannot set headers on WebSocket upgrades) and hands the connection to the
// manager.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written its own error response
		return nil
	}

	client := ws.NewClient(userID, conn)
	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
