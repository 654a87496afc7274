package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatspace/internal/domain/entity"
	"chatspace/pkg/errors"
)

func testUser(id string) *entity.User {
	return &entity.User{
		ID:             id,
		Username:       id,
		Email:          id + "@example.com",
		Friends:        []string{},
		FriendRequests: []entity.FriendRequest{},
	}
}

func newUserUseCaseForTest(users ...*entity.User) (*UserUseCase, *fakeUserRepo, *recorderBroadcaster) {
	userRepo := newFakeUserRepo(users...)
	broadcaster := &recorderBroadcaster{}
	return NewUserUseCase(userRepo, broadcaster), userRepo, broadcaster
}

func TestSendFriendRequest(t *testing.T) {
	uc, userRepo, broadcaster := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "bob"))

	bob := userRepo.users["bob"]
	require.Len(t, bob.FriendRequests, 1)
	assert.Equal(t, "alice", bob.FriendRequests[0].FromID)
	assert.Equal(t, entity.FriendRequestPending, bob.FriendRequests[0].Status)

	assert.Equal(t, []string{EventNewFriendRequest}, broadcaster.userEvents("bob"))
	assert.Empty(t, broadcaster.userEvents("alice"))
}

func TestSendFriendRequestToSelf(t *testing.T) {
	uc, _, _ := newUserUseCaseForTest(testUser("alice"))

	err := uc.SendFriendRequest(context.Background(), "alice", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendFriendRequestTwice(t *testing.T) {
	uc, _, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "bob"))

	err := uc.SendFriendRequest(ctx, "alice", "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestSendFriendRequestAlreadyFriends(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	alice.Friends = []string{"bob"}
	bob.Friends = []string{"alice"}
	uc, _, _ := newUserUseCaseForTest(alice, bob)

	err := uc.SendFriendRequest(context.Background(), "alice", "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestAcceptFriendRequest(t *testing.T) {
	uc, userRepo, broadcaster := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "bob"))
	require.NoError(t, uc.AcceptFriendRequest(ctx, "bob", "alice"))

	assert.True(t, userRepo.users["bob"].HasFriend("alice"))
	assert.True(t, userRepo.users["alice"].HasFriend("bob"))
	assert.Empty(t, userRepo.users["bob"].FriendRequests, "accepted request should be removed")

	assert.Contains(t, broadcaster.userEvents("bob"), EventNewFriend)
	assert.Contains(t, broadcaster.userEvents("alice"), EventNewFriend)
	assert.Contains(t, broadcaster.userEvents("alice"), EventFriendRequestAccepted)
}

func TestAcceptFriendRequestMissing(t *testing.T) {
	uc, _, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))

	err := uc.AcceptFriendRequest(context.Background(), "bob", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCancelFriendRequest(t *testing.T) {
	uc, userRepo, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "bob"))
	require.NoError(t, uc.CancelFriendRequest(ctx, "alice", "bob"))

	assert.Empty(t, userRepo.users["bob"].FriendRequests)
	assert.False(t, userRepo.users["bob"].HasFriend("alice"))
}

func TestDeleteFriendRequest(t *testing.T) {
	uc, userRepo, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "bob"))
	require.NoError(t, uc.DeleteFriendRequest(ctx, "bob", "alice"))

	assert.Empty(t, userRepo.users["bob"].FriendRequests)
	assert.False(t, userRepo.users["alice"].HasFriend("bob"), "discarding must not form a friendship")
}

func TestFriendSuggestions(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")     // already a friend
	carol := testUser("carol") // pending request from alice
	dave := testUser("dave")   // pending request to alice
	erin := testUser("erin")   // the only valid suggestion

	alice.Friends = []string{"bob"}
	bob.Friends = []string{"alice"}
	carol.FriendRequests = []entity.FriendRequest{{FromID: "alice", Status: entity.FriendRequestPending, CreatedAt: time.Now()}}
	alice.FriendRequests = []entity.FriendRequest{{FromID: "dave", Status: entity.FriendRequestPending, CreatedAt: time.Now()}}

	uc, _, _ := newUserUseCaseForTest(alice, bob, carol, dave, erin)

	suggestions, err := uc.FriendSuggestions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "erin", suggestions[0].ID)
}

func TestListFriendRequests(t *testing.T) {
	uc, _, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"), testUser("carol"))
	ctx := context.Background()

	require.NoError(t, uc.SendFriendRequest(ctx, "alice", "carol"))
	require.NoError(t, uc.SendFriendRequest(ctx, "bob", "carol"))

	requests, err := uc.ListFriendRequests(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "alice", requests[0].From.ID)
	assert.Equal(t, "bob", requests[1].From.ID)
}

func TestListFriends(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	alice.Friends = []string{"bob", "ghost"}
	uc, _, _ := newUserUseCaseForTest(alice, bob)

	friends, err := uc.ListFriends(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, friends, 1, "unknown friend ids are dropped")
	assert.Equal(t, "bob", friends[0].ID)
}

func TestUpdateProfile(t *testing.T) {
	uc, userRepo, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))
	ctx := context.Background()

	updated, err := uc.UpdateProfile(ctx, "alice", UpdateProfileInput{Username: "alice2", Bio: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "alice2", userRepo.users["alice"].Username)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	uc, _, _ := newUserUseCaseForTest(testUser("alice"), testUser("bob"))

	_, err := uc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{Username: "bob"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}
