package model

import (
	"encoding/json"
	"time"
)

// EventType names an event on the realtime channel.
type EventType string

const (
	// Outbound and inbound chat message.
	EventMessage EventType = "message"
	// Inbound full replacement of the online-user roster.
	EventOnlineUsers EventType = "onlineUsers"
	// Presence activity update, both directions.
	EventUpdateActivity EventType = "update_activity"

	// Heartbeat.
	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// ChannelMessage is the envelope for everything on the realtime channel.
type ChannelMessage struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ChatMessage is one direct message between two users.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// ActivityUpdate carries one user's presence activity string.
type ActivityUpdate struct {
	UserID   string `json:"userId"`
	Activity string `json:"activity"`
}
