package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

// Setup wires every route group onto the echo instance.
func Setup(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	groupHandler *handler.GroupHandler,
	wsHandler *handler.WebSocketHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	SetupAuthRouter(e, authHandler)
	SetupUserRouter(e, userHandler, authMiddleware)
	SetupChatRouter(e, chatHandler, authMiddleware)
	SetupGroupRouter(e, groupHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
