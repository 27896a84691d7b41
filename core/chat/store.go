// Package chat owns the realtime side of the client: the chat roster, the
// online-user set, per-user presence activity, and the message history for
// the selected peer. It drives and is driven by the realtime channel.
package chat

import (
	"context"
	"sync"
	"time"

	"echofm/api"
	"echofm/logger"
	"echofm/model"
	"echofm/realtime"

	"github.com/google/uuid"
)

// Channel is the slice of the realtime client the store depends on.
// *realtime.Client satisfies it; tests supply a fake.
type Channel interface {
	SetHandlers(h realtime.Handlers)
	Connect(ctx context.Context, userID string) error
	Disconnect()
	IsConnected() bool
	Emit(event model.EventType, payload interface{}) error
}

// Store fans realtime events into derived state and exposes the imperative
// chat calls. It also implements player.PresencePublisher: the player
// publishes activity through here without touching the channel directly.
type Store struct {
	api     *api.Client
	channel Channel

	mu          sync.RWMutex
	users       []model.User
	online      map[string]struct{}
	activities  map[string]string
	messages    []model.ChatMessage
	seen        map[string]struct{}
	selected    string
	connectedAs string
	isConnected bool
}

// NewStore creates the chat store around the REST client and the realtime
// channel.
func NewStore(apiClient *api.Client, channel Channel) *Store {
	s := &Store{
		api:        apiClient,
		channel:    channel,
		online:     make(map[string]struct{}),
		activities: make(map[string]string),
		seen:       make(map[string]struct{}),
	}
	if channel != nil {
		channel.SetHandlers(realtime.Handlers{
			OnMessage:     s.handleMessage,
			OnOnlineUsers: s.handleOnlineUsers,
			OnActivity:    s.handleActivity,
			OnState:       s.handleState,
		})
	}
	return s
}

// InitSocket opens the realtime connection for the given user. Idempotent:
// re-invoking with the same user id while connected is a no-op.
func (s *Store) InitSocket(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	s.mu.RLock()
	alreadyConnected := s.isConnected && s.connectedAs == userID
	s.mu.RUnlock()
	if alreadyConnected {
		return nil
	}

	if s.channel == nil {
		logger.Warn("no realtime channel configured, skipping socket init")
		return nil
	}
	if err := s.channel.Connect(ctx, userID); err != nil {
		logger.Error("failed to connect realtime channel", logger.ErrorField(err), logger.String("user", userID))
		return err
	}

	s.mu.Lock()
	s.connectedAs = userID
	s.mu.Unlock()
	return nil
}

// Disconnect tears down the realtime connection. Safe to call when already
// disconnected.
func (s *Store) Disconnect() {
	if s.channel != nil {
		s.channel.Disconnect()
	}
	s.mu.Lock()
	s.connectedAs = ""
	s.mu.Unlock()
}

// IsConnected reports the channel connection flag.
func (s *Store) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// FetchUsers loads the chat roster. On failure the existing roster stands.
func (s *Store) FetchUsers(ctx context.Context) {
	users, err := s.api.ChatUsers(ctx)
	if err != nil {
		logger.Error("failed to fetch chat users", logger.ErrorField(err))
		return
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
}

// FetchMessages loads the history with peerID and selects that peer. On
// failure the existing history stands.
func (s *Store) FetchMessages(ctx context.Context, peerID string) {
	messages, err := s.api.ChatMessages(ctx, peerID)
	if err != nil {
		logger.Error("failed to fetch messages", logger.ErrorField(err), logger.String("peer", peerID))
		return
	}
	s.mu.Lock()
	s.selected = peerID
	s.messages = messages
	s.seen = make(map[string]struct{}, len(messages))
	for _, m := range messages {
		if m.ID != "" {
			s.seen[m.ID] = struct{}{}
		}
	}
	s.mu.Unlock()
}

// SendMessage emits a chat message over the realtime channel. Without a
// connected channel this is a warned no-op, never an error.
func (s *Store) SendMessage(receiverID, senderID, content string) {
	if s.channel == nil || !s.channel.IsConnected() {
		logger.Warn("no realtime connection, message not sent",
			logger.String("receiver", receiverID))
		return
	}

	msg := model.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.channel.Emit(model.EventMessage, msg); err != nil {
		logger.Warn("failed to emit message", logger.ErrorField(err))
	}
}

// Publish emits the local user's presence activity. Implements the player's
// PresencePublisher contract: best-effort, never blocks, never fails.
func (s *Store) Publish(activity string) {
	s.mu.RLock()
	userID := s.connectedAs
	s.mu.RUnlock()

	if s.channel == nil || !s.channel.IsConnected() || userID == "" {
		logger.Debug("no realtime connection, presence update skipped")
		return
	}

	update := model.ActivityUpdate{UserID: userID, Activity: activity}
	if err := s.channel.Emit(model.EventUpdateActivity, update); err != nil {
		logger.Debug("failed to emit activity", logger.ErrorField(err))
	}
}

// Users returns the roster.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.users...)
}

// Messages returns the history for the selected peer.
func (s *Store) Messages() []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ChatMessage(nil), s.messages...)
}

// SelectedUser returns the currently selected peer id, or "".
func (s *Store) SelectedUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// IsOnline reports membership in the online set.
func (s *Store) IsOnline(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.online[userID]
	return ok
}

// OnlineUsers returns the online set as a list.
func (s *Store) OnlineUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.online))
	for id := range s.online {
		ids = append(ids, id)
	}
	return ids
}

// Activity returns a user's last-seen activity string, defaulting to "Idle".
func (s *Store) Activity(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.activities[userID]; ok {
		return a
	}
	return "Idle"
}

// handleMessage appends an inbound message, de-duplicating by id: the channel
// echoes the sender's own messages back, so an id seen before is dropped.
func (s *Store) handleMessage(msg model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID != "" {
		if _, dup := s.seen[msg.ID]; dup {
			return
		}
		s.seen[msg.ID] = struct{}{}
	}
	s.messages = append(s.messages, msg)
}

// handleOnlineUsers replaces the online set wholesale: last roster wins.
func (s *Store) handleOnlineUsers(userIDs []string) {
	online := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		online[id] = struct{}{}
	}
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// handleActivity records a user's activity; last event wins.
func (s *Store) handleActivity(update model.ActivityUpdate) {
	s.mu.Lock()
	s.activities[update.UserID] = update.Activity
	s.mu.Unlock()
}

func (s *Store) handleState(connected bool) {
	s.mu.Lock()
	s.isConnected = connected
	if !connected {
		s.online = make(map[string]struct{})
	}
	s.mu.Unlock()
}
