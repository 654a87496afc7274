package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/internal/infrastructure/auth"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens *auth.TokenService) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}
	if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.Conflict("Username already taken")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		Friends:        []string{},
		FriendRequests: []entity.FriendRequest{},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		logger.Debug("Login failed, no such email: %v", err)
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
