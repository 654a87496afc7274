package entity

import "time"

// Friend request status values. Only pending entries are stored on the
// user document; accepting or discarding a request removes the entry.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestIgnored  = "ignored"
)

type FriendRequest struct {
	FromID    string    `json:"from_id" firestore:"fromId"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type User struct {
	ID           string `json:"id" firestore:"id"`
	Username     string `json:"username" firestore:"username"`
	Email        string `json:"email" firestore:"email"`
	PasswordHash string `json:"-" firestore:"passwordHash"`

	ProfilePic string `json:"profile_pic,omitempty" firestore:"profilePic,omitempty"`
	Bio        string `json:"bio,omitempty" firestore:"bio,omitempty"`

	Friends        []string        `json:"friends" firestore:"friends"`
	FriendRequests []FriendRequest `json:"friend_requests" firestore:"friendRequests"`

	IsOnline bool      `json:"is_online" firestore:"isOnline"`
	LastSeen time.Time `json:"last_seen" firestore:"lastSeen"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasFriend reports whether id is already in the user's friends list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PendingRequestFrom returns the index of a pending friend request sent by
// fromID, or -1 when none exists.
func (u *User) PendingRequestFrom(fromID string) int {
	for i, req := range u.FriendRequests {
		if req.FromID == fromID && req.Status == FriendRequestPending {
			return i
		}
	}
	return -1
}
