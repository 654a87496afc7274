package entity

import "time"

// Message belongs to exactly one chat or one group. Messages are immutable
// once created except for appends to ReadBy.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id,omitempty" firestore:"chatId,omitempty"`
	GroupID   string    `json:"group_id,omitempty" firestore:"groupId,omitempty"`
	IsGroup   bool      `json:"is_group" firestore:"isGroup"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	ReadBy    []string  `json:"read_by" firestore:"readBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// ReadByUser reports whether userID already marked the message as read.
func (m *Message) ReadByUser(userID string) bool {
	for _, r := range m.ReadBy {
		if r == userID {
			return true
		}
	}
	return false
}
