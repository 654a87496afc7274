package usecase

// Server-to-client event names pushed through the realtime broadcaster.
const (
	EventReceiveMessage        = "receiveMessage"
	EventNewGroupMessage       = "newGroupMessage"
	EventChatUpdated           = "chatUpdated"
	EventGroupUpdated          = "groupUpdated"
	EventGroupCreated          = "groupCreated"
	EventNewFriend             = "newFriend"
	EventNewFriendRequest      = "newFriendRequest"
	EventFriendRequestAccepted = "friendRequestAccepted"
)

// Broadcaster publishes fire-and-forget events to rooms keyed by user, chat
// or group id. It is injected into each use case at construction time so
// handlers never reach for a process-wide socket handle.
type Broadcaster interface {
	SendToUser(userID, event string, data interface{})
	SendToRoom(roomID, event string, data interface{}, exceptUserID string)
}
