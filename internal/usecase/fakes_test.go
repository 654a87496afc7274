package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"chatspace/internal/domain/entity"
	"chatspace/pkg/errors"
)

// In-memory repositories mirroring the store-level guarantees of the
// Firestore implementations: deterministic chat IDs reject duplicate pairs,
// friend request updates are atomic, message creation rewrites the parent's
// latest-message pointer.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) AddFriendRequest(ctx context.Context, toUserID string, req entity.FriendRequest) error {
	user, ok := r.users[toUserID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if user.PendingRequestFrom(req.FromID) >= 0 {
		return errors.Conflict("Friend request already pending")
	}
	user.FriendRequests = append(user.FriendRequests, req)
	return nil
}

func (r *fakeUserRepo) AcceptFriendRequest(ctx context.Context, userID, fromUserID string) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	from, ok := r.users[fromUserID]
	if !ok {
		return errors.NotFound("User", nil)
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
	return nil
}

func (r *fakeUserRepo) RemoveFriendRequest(ctx context.Context, userID, fromUserID string) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	idx := user.PendingRequestFrom(fromUserID)
	if idx < 0 {
		return errors.NotFound("Friend request", nil)
	}
	user.FriendRequests = append(user.FriendRequests[:idx], user.FriendRequests[idx+1:]...)
	return nil
}

func (r *fakeUserRepo) SetOnline(ctx context.Context, userID string, online bool) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.IsOnline = online
	user.LastSeen = time.Now()
	return nil
}

type fakeChatRepo struct {
	chats map[string]*entity.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*entity.Chat)}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if _, ok := r.chats[chat.ID]; ok {
		return errors.Conflict("Chat already exists")
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *fakeChatRepo) ListByMember(ctx context.Context, userID string) ([]*entity.Chat, error) {
	chats := make([]*entity.Chat, 0)
	for _, chat := range r.chats {
		if chat.HasMember(userID) {
			chats = append(chats, chat)
		}
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].UpdatedAt.After(chats[j].UpdatedAt) })
	return chats, nil
}

type fakeGroupRepo struct {
	groups map[string]*entity.Group
	nextID int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*entity.Group)}
}

func (r *fakeGroupRepo) Create(ctx context.Context, group *entity.Group) error {
	for _, existing := range r.groups {
		if existing.Name == group.Name {
			return errors.Conflict("Group with this name already exists")
		}
	}
	if group.ID == "" {
		r.nextID++
		group.ID = fmt.Sprintf("group-%d", r.nextID)
	}
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, errors.NotFound("Group", nil)
	}
	return group, nil
}

func (r *fakeGroupRepo) GetByName(ctx context.Context, name string) (*entity.Group, error) {
	for _, group := range r.groups {
		if group.Name == name {
			return group, nil
		}
	}
	return nil, errors.NotFound("Group", nil)
}

func (r *fakeGroupRepo) Update(ctx context.Context, group *entity.Group) error {
	if _, ok := r.groups[group.ID]; !ok {
		return errors.NotFound("Group", nil)
	}
	group.UpdatedAt = time.Now()
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) ListByMember(ctx context.Context, userID string) ([]*entity.Group, error) {
	groups := make([]*entity.Group, 0)
	for _, group := range r.groups {
		if group.HasMember(userID) {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].UpdatedAt.After(groups[j].UpdatedAt) })
	return groups, nil
}

type fakeMessageRepo struct {
	messages map[string]*entity.Message
	order    []string
	chats    *fakeChatRepo
	groups   *fakeGroupRepo
	nextID   int
}

func newFakeMessageRepo(chats *fakeChatRepo, groups *fakeGroupRepo) *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[string]*entity.Message),
		chats:    chats,
		groups:   groups,
	}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	now := time.Now()

	if message.ID == "" {
		r.nextID++
		message.ID = fmt.Sprintf("msg-%d", r.nextID)
	}

	if message.IsGroup {
		group, ok := r.groups.groups[message.GroupID]
		if !ok {
			return errors.NotFound("Group", nil)
		}
		group.LatestMessageID = message.ID
		group.UpdatedAt = now
	} else {
		chat, ok := r.chats.chats[message.ChatID]
		if !ok {
			return errors.NotFound("Chat", nil)
		}
		chat.LatestMessageID = message.ID
		chat.UpdatedAt = now
	}

	message.CreatedAt = now
	r.messages[message.ID] = message
	r.order = append(r.order, message.ID)
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	return message, nil
}

func (r *fakeMessageRepo) ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0)
	for _, id := range r.order {
		if m := r.messages[id]; !m.IsGroup && m.ChatID == chatID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) ListByGroup(ctx context.Context, groupID string) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0)
	for _, id := range r.order {
		if m := r.messages[id]; m.IsGroup && m.GroupID == groupID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, messageID, userID string) error {
	message, ok := r.messages[messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	if !message.ReadByUser(userID) {
		message.ReadBy = append(message.ReadBy, userID)
	}
	return nil
}

type broadcastCall struct {
	Target string
	Event  string
	Data   interface{}
	Except string
}

// recorderBroadcaster captures fan-out calls for assertions.
type recorderBroadcaster struct {
	toUser []broadcastCall
	toRoom []broadcastCall
}

func (b *recorderBroadcaster) SendToUser(userID, event string, data interface{}) {
	b.toUser = append(b.toUser, broadcastCall{Target: userID, Event: event, Data: data})
}

func (b *recorderBroadcaster) SendToRoom(roomID, event string, data interface{}, exceptUserID string) {
	b.toRoom = append(b.toRoom, broadcastCall{Target: roomID, Event: event, Data: data, Except: exceptUserID})
}

func (b *recorderBroadcaster) userEvents(userID string) []string {
	events := make([]string, 0)
	for _, call := range b.toUser {
		if call.Target == userID {
			events = append(events, call.Event)
		}
	}
	return events
}
