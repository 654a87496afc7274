package router

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/adapter/api/handler"
	"chatspace/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)

	users.GET("/suggestions", userHandler.FriendSuggestions)
	users.GET("/friends", userHandler.ListFriends)

	users.GET("/friend-requests", userHandler.ListFriendRequests)
	users.POST("/friend-requests", userHandler.SendFriendRequest)
	users.POST("/friend-requests/accept", userHandler.AcceptFriendRequest)
	users.POST("/friend-requests/cancel", userHandler.CancelFriendRequest)
	users.DELETE("/friend-requests/:fromUserId", userHandler.DeleteFriendRequest)
}
