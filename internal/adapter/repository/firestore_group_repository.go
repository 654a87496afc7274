package repository

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/pkg/errors"
	"chatspace/pkg/logger"
)

type firestoreGroupRepository struct {
	client *firestore.Client
}

func NewFirestoreGroupRepository(client *firestore.Client) repository.GroupRepository {
	return &firestoreGroupRepository{
		client: client,
	}
}

func (r *firestoreGroupRepository) groups() *firestore.CollectionRef {
	return r.client.Collection("groups")
}

// groupNameKey escapes the name so it is usable as a document ID.
func groupNameKey(name string) string {
	return url.PathEscape(name)
}

// Create reserves the group name through a sentinel document in the same
// transaction as the group itself, so two concurrent creates for one name
// cannot both succeed.
func (r *firestoreGroupRepository) Create(ctx context.Context, group *entity.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	nameRef := r.client.Collection("groupNames").Doc(groupNameKey(group.Name))
	groupRef := r.groups().Doc(group.ID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(nameRef, map[string]interface{}{"groupId": group.ID}); err != nil {
			if status.Code(err) == codes.AlreadyExists {
				return errors.Conflict("Group with this name already exists")
			}
			return errors.Internal("Failed to reserve group name", err)
		}
		if err := tx.Create(groupRef, group); err != nil {
			return errors.Internal("Failed to create group", err)
		}
		return nil
	})
}

func (r *firestoreGroupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	doc, err := r.groups().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Group", err)
		}
		return nil, errors.Internal("Failed to get group", err)
	}

	var group entity.Group
	if err := doc.DataTo(&group); err != nil {
		return nil, errors.Internal("Failed to parse group data", err)
	}
	return &group, nil
}

func (r *firestoreGroupRepository) GetByName(ctx context.Context, name string) (*entity.Group, error) {
	iter := r.groups().Where("name", "==", name).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Group", nil)
		}
		return nil, errors.Internal("Failed to query groups", err)
	}

	var group entity.Group
	if err := doc.DataTo(&group); err != nil {
		return nil, errors.Internal("Failed to parse group data", err)
	}
	return &group, nil
}

func (r *firestoreGroupRepository) Update(ctx context.Context, group *entity.Group) error {
	group.UpdatedAt = time.Now()

	if _, err := r.groups().Doc(group.ID).Set(ctx, group); err != nil {
		return errors.Internal("Failed to update group", err)
	}
	return nil
}

func (r *firestoreGroupRepository) ListByMember(ctx context.Context, userID string) ([]*entity.Group, error) {
	query := r.groups().Where("members", "array-contains", userID).OrderBy("updatedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching groups for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch groups", err)
	}

	groups := make([]*entity.Group, 0, len(docs))
	for _, doc := range docs {
		var group entity.Group
		if err := doc.DataTo(&group); err != nil {
			logger.Warn("Skipping malformed group document %s: %v", doc.Ref.ID, err)
			continue
		}
		groups = append(groups, &group)
	}
	return groups, nil
}
