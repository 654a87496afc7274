package entity

import (
	"sort"
	"strings"
	"time"
)

// Chat is a two-party conversation. The document ID is the sorted pair key
// of its members, which makes the "one chat per unordered pair" invariant a
// store-level uniqueness constraint instead of a racy check-then-create.
type Chat struct {
	ID              string    `json:"id" firestore:"id"`
	Members         []string  `json:"members" firestore:"members"`
	LatestMessageID string    `json:"latest_message_id,omitempty" firestore:"latestMessageId,omitempty"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ChatKey builds the deterministic document ID for the unordered user pair.
func ChatKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// HasMember reports whether userID participates in the chat.
func (c *Chat) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// OtherMember returns the member that is not userID.
func (c *Chat) OtherMember(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return ""
}
