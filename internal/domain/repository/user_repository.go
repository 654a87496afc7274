package repository

import (
	"context"

	"chatspace/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)

	// Friend request state machine. All three run as single store
	// transactions so concurrent calls cannot duplicate a pending entry
	// or a friendship.
	AddFriendRequest(ctx context.Context, toUserID string, req entity.FriendRequest) error
	AcceptFriendRequest(ctx context.Context, userID, fromUserID string) error
	RemoveFriendRequest(ctx context.Context, userID, fromUserID string) error

	SetOnline(ctx context.Context, userID string, online bool) error
}
