package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chatspace/pkg/logger"
)

// PresenceStore records connect/disconnect state for a user.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID string, online bool) error
}

// Envelope is the wire format for every server-to-client event.
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Manager tracks connected clients and the rooms they joined. Rooms are
// keyed by a user id (personal channel), a chat id or a group id. Delivery
// is fire-and-forget: a slow client whose send buffer fills is dropped.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	presence   PresenceStore
	mutex      sync.RWMutex
}

func NewManager(presence PresenceStore) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		presence:   presence,
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.addClient(ctx, client)

			case client := <-m.Unregister:
				m.removeClient(ctx, client)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) addClient(ctx context.Context, client *Client) {
	m.mutex.Lock()
	if old, ok := m.clients[client.UserID]; ok && old != client {
		m.dropLocked(old)
	}
	m.clients[client.UserID] = client
	m.joinRoomLocked(client.UserID, client) // personal channel
	m.mutex.Unlock()

	if m.presence != nil {
		if err := m.presence.SetOnline(ctx, client.UserID, true); err != nil {
			logger.Warn("Failed to mark user %s online: %v", client.UserID, err)
		}
	}
	logger.Info("Client registered: %s", client.UserID)
}

func (m *Manager) removeClient(ctx context.Context, client *Client) {
	m.mutex.Lock()
	current, ok := m.clients[client.UserID]
	if !ok || current != client {
		m.mutex.Unlock()
		return
	}
	delete(m.clients, client.UserID)
	m.dropLocked(client)
	m.mutex.Unlock()

	if m.presence != nil {
		if err := m.presence.SetOnline(ctx, client.UserID, false); err != nil {
			logger.Warn("Failed to mark user %s offline: %v", client.UserID, err)
		}
	}
	logger.Info("Client unregistered: %s", client.UserID)
}

// dropLocked removes the client from every room and closes its send
// channel. Caller holds the write lock. Closing goes through Client.close so
// broadcasters that already snapshotted the client cannot hit a closed
// channel.
func (m *Manager) dropLocked(client *Client) {
	for roomID, members := range m.rooms {
		if members[client.UserID] == client {
			delete(members, client.UserID)
			if len(members) == 0 {
				delete(m.rooms, roomID)
			}
		}
	}
	client.close()
}

func (m *Manager) joinRoomLocked(roomID string, client *Client) {
	members, ok := m.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		m.rooms[roomID] = members
	}
	members[client.UserID] = client
}

func (m *Manager) JoinRoom(roomID string, client *Client) {
	m.mutex.Lock()
	m.joinRoomLocked(roomID, client)
	m.mutex.Unlock()
}

func (m *Manager) LeaveRoom(roomID string, client *Client) {
	m.mutex.Lock()
	if members, ok := m.rooms[roomID]; ok {
		if members[client.UserID] == client {
			delete(members, client.UserID)
			if len(members) == 0 {
				delete(m.rooms, roomID)
			}
		}
	}
	m.mutex.Unlock()
}

// SendToUser delivers an event to a user's personal channel. Nothing happens
// when the user is not connected.
func (m *Manager) SendToUser(userID, event string, data interface{}) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		m.deliver(client, payload)
	}
}

// SendToRoom delivers an event to every client in a room, optionally
// excluding one user (typically the sender).
func (m *Manager) SendToRoom(roomID, event string, data interface{}, exceptUserID string) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}

	m.mutex.RLock()
	members := make([]*Client, 0, len(m.rooms[roomID]))
	for userID, client := range m.rooms[roomID] {
		if userID == exceptUserID {
			continue
		}
		members = append(members, client)
	}
	m.mutex.RUnlock()

	for _, client := range members {
		m.deliver(client, payload)
	}
}

func (m *Manager) deliver(client *Client, payload []byte) {
	if _, full := client.trySend(payload); full {
		logger.Warn("Client %s send buffer full, dropping connection", client.UserID)
		go func() { m.Unregister <- client }()
	}
}

func marshalEnvelope(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to marshal %s event: %v", event, err)
		return nil, err
	}
	return payload, nil
}
