package entity

import "time"

// Group is a named multi-party conversation. The creator is always both a
// member and an admin, and admins are a subset of members.
type Group struct {
	ID              string    `json:"id" firestore:"id"`
	Name            string    `json:"name" firestore:"name"`
	ImageURL        string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Members         []string  `json:"members" firestore:"members"`
	Admins          []string  `json:"admins" firestore:"admins"`
	LatestMessageID string    `json:"latest_message_id,omitempty" firestore:"latestMessageId,omitempty"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func (g *Group) HasAdmin(userID string) bool {
	for _, a := range g.Admins {
		if a == userID {
			return true
		}
	}
	return false
}
