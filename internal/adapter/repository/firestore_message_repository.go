package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) messages() *firestore.CollectionRef {
	return r.client.Collection("messages")
}

func (r *firestoreMessageRepository) parentRef(message *entity.Message) *firestore.DocumentRef {
	if message.IsGroup {
		return r.client.Collection("groups").Doc(message.GroupID)
	}
	return r.client.Collection("chats").Doc(message.ChatID)
}

// Create writes the message and rewrites the parent's latest-message pointer
// in a single transaction, so the pointer can never reference a message that
// was not stored.
func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	msgRef := r.messages().Doc(message.ID)
	parentRef := r.parentRef(message)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(parentRef); err != nil {
			if status.Code(err) == codes.NotFound {
				if message.IsGroup {
					return errors.NotFound("Group", err)
				}
				return errors.NotFound("Chat", err)
			}
			return errors.Internal("Failed to get conversation", err)
		}

		if err := tx.Create(msgRef, message); err != nil {
			return errors.Internal("Failed to create message", err)
		}

		return tx.Update(parentRef, []firestore.Update{
			{Path: "latestMessageId", Value: message.ID},
			{Path: "updatedAt", Value: message.CreatedAt},
		})
	})
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.messages().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreMessageRepository) listByParent(ctx context.Context, field, parentID string) ([]*entity.Message, error) {
	query := r.messages().Where(field, "==", parentID).OrderBy("createdAt", firestore.Asc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching messages for %s %s: %v", field, parentID, err)
		return nil, errors.Internal("Failed to fetch messages", err)
	}

	messages := make([]*entity.Message, 0, len(docs))
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

func (r *firestoreMessageRepository) ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	return r.listByParent(ctx, "chatId", chatID)
}

func (r *firestoreMessageRepository) ListByGroup(ctx context.Context, groupID string) ([]*entity.Message, error) {
	return r.listByParent(ctx, "groupId", groupID)
}

func (r *firestoreMessageRepository) MarkRead(ctx context.Context, messageID, userID string) error {
	ref := r.messages().Doc(messageID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Message", err)
			}
			return errors.Internal("Failed to get message", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return errors.Internal("Failed to parse message data", err)
		}

		if message.ReadByUser(userID) {
			return nil
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "readBy", Value: firestore.ArrayUnion(userID)},
		})
	})
}
