package usecase

import (
	"context"
	"strings"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

type ChatResponse struct {
	*entity.Chat
	OtherUser     *entity.User    `json:"other_user,omitempty"`
	LatestMessage *entity.Message `json:"latest_message,omitempty"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// CreateChat returns the existing chat for the pair when there is one; the
// deterministic document ID makes concurrent creates collapse into a single
// chat instead of racing.
func (uc *ChatUseCase) CreateChat(ctx context.Context, userID, peerID string) (*ChatResponse, error) {
	if peerID == "" {
		return nil, errors.BadRequest("user_id is required", nil)
	}
	if userID == peerID {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	peer, err := uc.userRepo.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}

	chat := &entity.Chat{
		ID:      entity.ChatKey(userID, peerID),
		Members: []string{userID, peerID},
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}
		chat, err = uc.chatRepo.GetByID(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChatResponse{Chat: chat, OtherUser: peer}, nil
}

// ListChats returns the caller's chats, most recently active first, each
// with the denormalized latest message and the other member expanded.
func (uc *ChatUseCase) ListChats(ctx context.Context, userID string) ([]*ChatResponse, error) {
	chats, err := uc.chatRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		resp := &ChatResponse{Chat: chat}

		if otherID := chat.OtherMember(userID); otherID != "" {
			if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
				resp.OtherUser = other
			}
		}
		if chat.LatestMessageID != "" {
			if latest, err := uc.messageRepo.GetByID(ctx, chat.LatestMessageID); err == nil {
				resp.LatestMessage = latest
			} else {
				logger.Warn("Chat %s points at missing message %s: %v", chat.ID, chat.LatestMessageID, err)
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// SendMessage stores a message in the chat, updates the latest-message
// pointer in the same store transaction and fans the message out: to the
// chat room for open conversation views, and to each member's personal
// channel so chat lists refresh.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, chatID, text string) (*MessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("text is required", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, errors.Forbidden("You are not a member of this chat", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ChatID:   chatID,
		SenderID: userID,
		Text:     text,
		ReadBy:   []string{userID},
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	resp := &MessageResponse{Message: message, Sender: sender}

	uc.broadcaster.SendToRoom(chatID, EventReceiveMessage, resp, userID)
	for _, memberID := range chat.Members {
		if memberID == userID {
			continue
		}
		uc.broadcaster.SendToUser(memberID, EventChatUpdated, map[string]interface{}{
			"chat_id":        chatID,
			"latest_message": resp,
			"updated_at":     message.CreatedAt,
		})
	}
	return resp, nil
}

// GetMessages returns all messages of a chat ordered by creation time
// ascending. Only members may read the conversation.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, chatID string) ([]*MessageResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, errors.Forbidden("You are not a member of this chat", nil)
	}

	messages, err := uc.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return uc.expandSenders(ctx, messages), nil
}

func (uc *ChatUseCase) MarkMessageRead(ctx context.Context, userID, chatID, messageID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasMember(userID) {
		return errors.Forbidden("You are not a member of this chat", nil)
	}

	// The membership check above covers chatID only, so the message must
	// actually belong to that chat before the caller may touch it.
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.IsGroup || message.ChatID != chatID {
		return errors.NotFound("Message", nil)
	}

	return uc.messageRepo.MarkRead(ctx, messageID, userID)
}

func (uc *ChatUseCase) expandSenders(ctx context.Context, messages []*entity.Message) []*MessageResponse {
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
	return responses
}
