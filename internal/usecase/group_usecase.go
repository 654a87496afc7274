package usecase

import (
	"context"
	"strings"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type GroupUseCase struct {
	groupRepo   repository.GroupRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

func NewGroupUseCase(
	groupRepo repository.GroupRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
) *GroupUseCase {
	return &GroupUseCase{
		groupRepo:   groupRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

type CreateGroupInput struct {
	Name     string
	Members  []string
	ImageURL string
}

type GroupResponse struct {
	*entity.Group
	LatestMessage *entity.Message `json:"latest_message,omitempty"`
}

// CreateGroup normalizes the member set (deduplicated, creator always
// included), makes the creator the sole initial admin and announces the
// group on every member's personal channel.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, creatorID string, input CreateGroupInput) (*entity.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.BadRequest("Group name is required", nil)
	}

	if existing, err := uc.groupRepo.GetByName(ctx, name); err == nil && existing != nil {
		return nil, errors.Conflict("Group with this name already exists")
	}

	seen := map[string]bool{creatorID: true}
	members := []string{creatorID}
	for _, memberID := range input.Members {
		memberID = strings.TrimSpace(memberID)
		if memberID == "" || seen[memberID] {
			continue
		}
		seen[memberID] = true
		members = append(members, memberID)
	}

	group := &entity.Group{
		Name:     name,
		ImageURL: input.ImageURL,
		Members:  members,
		Admins:   []string{creatorID},
	}
	if err := uc.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	for _, memberID := range group.Members {
		uc.broadcaster.SendToUser(memberID, EventGroupCreated, group)
	}
	return group, nil
}

func (uc *GroupUseCase) ListGroups(ctx context.Context, userID string) ([]*GroupResponse, error) {
	groups, err := uc.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*GroupResponse, 0, len(groups))
	for _, group := range groups {
		resp := &GroupResponse{Group: group}
		if group.LatestMessageID != "" {
			if latest, err := uc.messageRepo.GetByID(ctx, group.LatestMessageID); err == nil {
				resp.LatestMessage = latest
			} else {
				logger.Warn("Group %s points at missing message %s: %v", group.ID, group.LatestMessageID, err)
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (uc *GroupUseCase) GetGroup(ctx context.Context, userID, groupID string) (*entity.Group, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errors.Forbidden("You are not a member of this group", nil)
	}
	return group, nil
}

// AddMember lets an admin add a user to the group. Adding an existing
// member is a no-op.
func (uc *GroupUseCase) AddMember(ctx context.Context, callerID, groupID, userID string) (*entity.Group, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasAdmin(callerID) {
		return nil, errors.Forbidden("Only admins can add members", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if !group.HasMember(userID) {
		group.Members = append(group.Members, userID)
		if err := uc.groupRepo.Update(ctx, group); err != nil {
			return nil, err
		}

		uc.broadcaster.SendToRoom(groupID, EventGroupUpdated, map[string]interface{}{
			"group_id": groupID,
			"action":   "memberAdded",
			"user_id":  userID,
		}, "")
		uc.broadcaster.SendToUser(userID, EventGroupCreated, group)
	}
	return group, nil
}

// SendMessage mirrors the chat send path for groups: one transactional
// write for message plus latest pointer, then room and personal fan-out.
func (uc *GroupUseCase) SendMessage(ctx context.Context, userID, groupID, text string) (*MessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("text is required", nil)
	}

	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errors.Forbidden("You are not a member of this group", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		GroupID:  groupID,
		IsGroup:  true,
		SenderID: userID,
		Text:     text,
		ReadBy:   []string{userID},
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	resp := &MessageResponse{Message: message, Sender: sender}

	uc.broadcaster.SendToRoom(groupID, EventNewGroupMessage, resp, userID)
	for _, memberID := range group.Members {
		if memberID == userID {
			continue
		}
		uc.broadcaster.SendToUser(memberID, EventGroupUpdated, map[string]interface{}{
			"group_id":       groupID,
			"latest_message": resp,
			"updated_at":     message.CreatedAt,
		})
	}
	return resp, nil
}

func (uc *GroupUseCase) GetMessages(ctx context.Context, userID, groupID string) ([]*MessageResponse, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errors.Forbidden("You are not a member of this group", nil)
	}

	messages, err := uc.messageRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	senders := make(map[string]*entity.User)
	responses := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		sender, ok := senders[message.SenderID]
		if !ok {
			sender, _ = uc.userRepo.GetByID(ctx, message.SenderID)
			senders[message.SenderID] = sender
		}
		responses = append(responses, &MessageResponse{Message: message, Sender: sender})
	}
	return responses, nil
}
