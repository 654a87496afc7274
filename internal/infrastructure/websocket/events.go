package websocket

import (
	"encoding/json"

	"chatspace/pkg/logger"
)

// Client-to-server event names.
const (
	EventJoin       = "join"
	EventJoinChat   = "joinChat"
	EventLeaveChat  = "leaveChat"
	EventJoinGroup  = "joinGroup"
	EventLeaveGroup = "leaveGroup"
	EventPing       = "ping"
	EventPong       = "pong"
	EventError      = "error"
)

type clientEvent struct {
	Event   string `json:"event"`
	ChatID  string `json:"chat_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

// HandleClientEvent dispatches one inbound frame. The personal room is
// joined automatically at registration, so "join" is just an ack for
// clients that emit it anyway.
func (m *Manager) HandleClientEvent(client *Client, raw []byte) {
	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		logger.Warn("Invalid WebSocket frame from %s: %v", client.UserID, err)
		m.sendError(client, "Invalid event format")
		return
	}

	switch event.Event {
	case EventPing:
		m.SendToUser(client.UserID, EventPong, map[string]string{"status": "alive"})

	case EventJoin:
		// already in the personal room

	case EventJoinChat:
		if event.ChatID == "" {
			m.sendError(client, "Missing chat_id")
			return
		}
		m.JoinRoom(event.ChatID, client)
		logger.Debug("Client %s joined chat room %s", client.UserID, event.ChatID)

	case EventLeaveChat:
		if event.ChatID == "" {
			m.sendError(client, "Missing chat_id")
			return
		}
		m.LeaveRoom(event.ChatID, client)

	case EventJoinGroup:
		if event.GroupID == "" {
			m.sendError(client, "Missing group_id")
			return
		}
		m.JoinRoom(event.GroupID, client)
		logger.Debug("Client %s joined group room %s", client.UserID, event.GroupID)

	case EventLeaveGroup:
		if event.GroupID == "" {
			m.sendError(client, "Missing group_id")
			return
		}
		m.LeaveRoom(event.GroupID, client)

	default:
		logger.Warn("Unknown WebSocket event %q from %s", event.Event, client.UserID)
		m.sendError(client, "Unknown event type")
	}
}

func (m *Manager) sendError(client *Client, message string) {
	m.SendToUser(client.UserID, EventError, map[string]string{"error": message})
}
