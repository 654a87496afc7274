package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type GroupRepository interface {
	// Create fails with a CONFLICT error when a group with the same name
	// already exists.
	Create(ctx context.Context, group *entity.Group) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetByName(ctx context.Context, name string) (*entity.Group, error)
	Update(ctx context.Context, group *entity.Group) error
	ListByMember(ctx context.Context, userID string) ([]*entity.Group, error)
}
