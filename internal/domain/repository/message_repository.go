package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type MessageRepository interface {
	// Create writes the message and rewrites the parent's latest-message
	// pointer in the same transaction.
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error)
	ListByGroup(ctx context.Context, groupID string) ([]*entity.Message, error)
	MarkRead(ctx context.Context, messageID, userID string) error
}
