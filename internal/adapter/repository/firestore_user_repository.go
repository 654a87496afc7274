package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) users() *firestore.CollectionRef {
	return r.client.Collection("users")
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.users().Doc(user.ID).Create(ctx, user); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("User already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) getByField(ctx context.Context, field, value, resource string) (*entity.User, error) {
	iter := r.users().Where(field, "==", value).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound(resource, nil)
		}
		return nil, errors.Internal("Failed to query users", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getByField(ctx, "email", email, "User")
}

func (r *firestoreUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getByField(ctx, "username", username, "User")
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	if _, err := r.users().Doc(user.ID).Set(ctx, user); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.users().Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			continue // skip malformed documents
		}
		users = append(users, &user)
	}
	return users, nil
}

func (r *firestoreUserRepository) AddFriendRequest(ctx context.Context, toUserID string, req entity.FriendRequest) error {
	ref := r.users().Doc(toUserID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return errors.Internal("Failed to get user", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		if user.PendingRequestFrom(req.FromID) >= 0 {
			return errors.Conflict("Friend request already pending")
		}

		user.FriendRequests = append(user.FriendRequests, req)
		user.UpdatedAt = time.Now()
		return tx.Set(ref, &user)
	})
}

func (r *firestoreUserRepository) AcceptFriendRequest(ctx context.Context, userID, fromUserID string) error {
	userRef := r.users().Doc(userID)
	fromRef := r.users().Doc(fromUserID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userDoc, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return errors.Internal("Failed to get user", err)
		}
		fromDoc, err := tx.Get(fromRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return errors.Internal("Failed to get user", err)
		}

		var user, from entity.User
		if err := userDoc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}
		if err := fromDoc.DataTo(&from); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		idx := user.PendingRequestFrom(fromUserID)
		if idx < 0 {
			return errors.NotFound("Friend request", nil)
		}
		user.FriendRequests = append(user.FriendRequests[:idx], user.FriendRequests[idx+1:]...)

		if !user.HasFriend(fromUserID) {
			user.Friends = append(user.Friends, fromUserID)
		}
		if !from.HasFriend(userID) {
			from.Friends = append(from.Friends, userID)
		}

		now := time.Now()
		user.UpdatedAt = now
		from.UpdatedAt = now

		if err := tx.Set(userRef, &user); err != nil {
			return errors.Internal("Failed to update user", err)
		}
		return tx.Set(fromRef, &from)
	})
}

func (r *firestoreUserRepository) RemoveFriendRequest(ctx context.Context, userID, fromUserID string) error {
	ref := r.users().Doc(userID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return errors.Internal("Failed to get user", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		idx := user.PendingRequestFrom(fromUserID)
		if idx < 0 {
			return errors.NotFound("Friend request", nil)
		}

		user.FriendRequests = append(user.FriendRequests[:idx], user.FriendRequests[idx+1:]...)
		user.UpdatedAt = time.Now()
		return tx.Set(ref, &user)
	})
}

func (r *firestoreUserRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	_, err := r.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "isOnline", Value: online},
		{Path: "lastSeen", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update presence", err)
	}
	return nil
}
