package usecase

import (
	"context"
	"strings"
	"time"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

func NewUserUseCase(userRepo repository.UserRepository, broadcaster Broadcaster) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

type FriendRequestView struct {
	From      *entity.User `json:"from"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type UpdateProfileInput struct {
	Username   string
	Email      string
	Bio        string
	ProfilePic string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// FriendSuggestions returns everyone who is not the caller, not already a
// friend and has no pending request in either direction.
func (uc *UserUseCase) FriendSuggestions(ctx context.Context, userID string) ([]*entity.User, error) {
	current, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*entity.User, 0, len(all))
	for _, candidate := range all {
		if candidate.ID == userID || current.HasFriend(candidate.ID) {
			continue
		}
		if current.PendingRequestFrom(candidate.ID) >= 0 || candidate.PendingRequestFrom(userID) >= 0 {
			continue
		}
		suggestions = append(suggestions, candidate)
	}
	return suggestions, nil
}

func (uc *UserUseCase) SendFriendRequest(ctx context.Context, fromID, toID string) error {
	if fromID == toID {
		return errors.BadRequest("You cannot send a friend request to yourself", nil)
	}

	from, err := uc.userRepo.GetByID(ctx, fromID)
	if err != nil {
		return err
	}
	if from.HasFriend(toID) {
		return errors.Conflict("Already friends")
	}

	req := entity.FriendRequest{
		FromID:    fromID,
		Status:    entity.FriendRequestPending,
		CreatedAt: time.Now(),
	}
	if err := uc.userRepo.AddFriendRequest(ctx, toID, req); err != nil {
		return err
	}

	uc.broadcaster.SendToUser(toID, EventNewFriendRequest, FriendRequestView{
		From:      from,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	})
	return nil
}

func (uc *UserUseCase) AcceptFriendRequest(ctx context.Context, userID, fromID string) error {
	if err := uc.userRepo.AcceptFriendRequest(ctx, userID, fromID); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	from, err := uc.userRepo.GetByID(ctx, fromID)
	if err != nil {
		return err
	}

	uc.broadcaster.SendToUser(userID, EventNewFriend, from)
	uc.broadcaster.SendToUser(fromID, EventNewFriend, user)
	uc.broadcaster.SendToUser(fromID, EventFriendRequestAccepted, map[string]interface{}{
		"user": user,
	})
	return nil
}

// CancelFriendRequest lets the sender withdraw their own pending request
// from the recipient's record.
func (uc *UserUseCase) CancelFriendRequest(ctx context.Context, fromID, toID string) error {
	return uc.userRepo.RemoveFriendRequest(ctx, toID, fromID)
}

// DeleteFriendRequest lets the recipient discard an incoming pending
// request without forming a friendship.
func (uc *UserUseCase) DeleteFriendRequest(ctx context.Context, userID, fromID string) error {
	return uc.userRepo.RemoveFriendRequest(ctx, userID, fromID)
}

func (uc *UserUseCase) ListFriendRequests(ctx context.Context, userID string) ([]FriendRequestView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests := make([]FriendRequestView, 0, len(user.FriendRequests))
	for _, req := range user.FriendRequests {
		if req.Status != entity.FriendRequestPending {
			continue
		}
		from, err := uc.userRepo.GetByID(ctx, req.FromID)
		if err != nil {
			logger.Warn("Dropping friend request with unknown sender %s: %v", req.FromID, err)
			continue
		}
		requests = append(requests, FriendRequestView{
			From:      from,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		})
	}
	return requests, nil
}

func (uc *UserUseCase) ListFriends(ctx context.Context, userID string) ([]*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*entity.User, 0, len(user.Friends))
	for _, friendID := range user.Friends {
		friend, err := uc.userRepo.GetByID(ctx, friendID)
		if err != nil {
			logger.Warn("Dropping unknown friend %s: %v", friendID, err)
			continue
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(input.Username); username != "" && username != user.Username {
		if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
			return nil, errors.Conflict("Username already taken")
		}
		user.Username = username
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
			return nil, errors.Conflict("Email already in use")
		}
		user.Email = email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.ProfilePic != "" {
		user.ProfilePic = input.ProfilePic
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
