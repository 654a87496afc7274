package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.ListChats)

	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.PUT("/:id/messages/:messageId/read", chatHandler.MarkMessageRead)
}
