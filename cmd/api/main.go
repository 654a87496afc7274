package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"chatspace/internal/adapter/api"
	"chatspace/internal/adapter/api/handler"
	apimiddleware "chatspace/internal/adapter/api/middleware"
	"chatspace/internal/adapter/api/router"
	"chatspace/internal/adapter/repository"
	"chatspace/internal/infrastructure/auth"
	"chatspace/internal/infrastructure/websocket"
	"chatspace/internal/usecase"
	"chatspace/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	groupRepo := repository.NewFirestoreGroupRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	wsManager := websocket.NewManager(userRepo)
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokenService)
	userUseCase := usecase.NewUserUseCase(userRepo, wsManager)
	chatUseCase := usecase.NewChatUseCase(chatRepo, messageRepo, userRepo, wsManager)
	groupUseCase := usecase.NewGroupUseCase(groupRepo, messageRepo, userRepo, wsManager)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokenService)

	authHandler := handler.NewAuthHandler(authUseCase)
	userHandler := handler.NewUserHandler(userUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)
	groupHandler := handler.NewGroupHandler(groupUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, tokenService)

	router.Setup(e, authHandler, userHandler, chatHandler, groupHandler, wsHandler, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
