package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type ChatRepository interface {
	// Create fails with a CONFLICT error when a chat for the same
	// unordered member pair already exists.
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByMember(ctx context.Context, userID string) ([]*entity.Chat, error)
}
