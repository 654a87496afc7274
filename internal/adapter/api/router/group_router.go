package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

func SetupGroupRouter(e *echo.Echo, groupHandler *handler.GroupHandler, authMiddleware *middleware.AuthMiddleware) {
	groups := e.Group("/v1/groups")
	groups.Use(authMiddleware.Authenticate)

	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.ListGroups)
	groups.GET("/:id", groupHandler.GetGroup)
	groups.POST("/:id/members", groupHandler.AddMember)

	groups.POST("/:id/messages", groupHandler.SendMessage)
	groups.GET("/:id/messages", groupHandler.GetMessages)
}
