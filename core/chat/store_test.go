package chat

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"

	"echofm/model"
	"echofm/realtime"

	"github.com/stretchr/testify/require"
)

// fakeChannel records connections and emits without any network.
type fakeChannel struct {
	mu        sync.Mutex
	handlers  realtime.Handlers
	connected bool
	userID    string
	connects  int
	emits     []model.ChannelMessage
}

func (f *fakeChannel) SetHandlers(h realtime.Handlers) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = h
}

func (f *fakeChannel) Connect(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.connects++
	f.connected = true
	f.userID = userID
	onState := f.handlers.OnState
	f.mu.Unlock()
	if onState != nil {
		onState(true)
	}
	return nil
}

func (f *fakeChannel) Disconnect() {
	f.mu.Lock()
	wasConnected := f.connected
	f.connected = false
	f.userID = ""
	onState := f.handlers.OnState
	f.mu.Unlock()
	if wasConnected && onState != nil {
		onState(false)
	}
}

func (f *fakeChannel) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeChannel) Emit(event model.EventType, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, model.ChannelMessage{Type: event, Data: data})
	return nil
}

func (f *fakeChannel) emitted() []model.ChannelMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ChannelMessage(nil), f.emits...)
}

func TestInitSocketIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)

	require.NoError(t, store.InitSocket(context.Background(), "u1"))
	require.NoError(t, store.InitSocket(context.Background(), "u1"))

	require.Equal(t, 1, ch.connects)
	require.True(t, store.IsConnected())
}

func TestInitSocketSwitchesUser(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)

	require.NoError(t, store.InitSocket(context.Background(), "u1"))
	require.NoError(t, store.InitSocket(context.Background(), "u2"))
	require.Equal(t, 2, ch.connects)
}

func TestDisconnectSafeWhenAlreadyDisconnected(t *testing.T) {
	store := NewStore(nil, &fakeChannel{})
	store.Disconnect()
	store.Disconnect()
	require.False(t, store.IsConnected())
}

func TestOnlineUsersFullReplace(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))

	ch.handlers.OnOnlineUsers([]string{"a", "b"})
	online := store.OnlineUsers()
	sort.Strings(online)
	require.Equal(t, []string{"a", "b"}, online)

	// Last roster wins: replacement, not union.
	ch.handlers.OnOnlineUsers([]string{"b"})
	require.Equal(t, []string{"b"}, store.OnlineUsers())
	require.False(t, store.IsOnline("a"))
	require.True(t, store.IsOnline("b"))
}

func TestActivityLastEventWins(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))

	require.Equal(t, "Idle", store.Activity("a"))
	ch.handlers.OnActivity(model.ActivityUpdate{UserID: "a", Activity: "Playing X by Y"})
	require.Equal(t, "Playing X by Y", store.Activity("a"))
	ch.handlers.OnActivity(model.ActivityUpdate{UserID: "a", Activity: "Idle"})
	require.Equal(t, "Idle", store.Activity("a"))
}

func TestInboundMessagesDedupedByID(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))

	msg := model.ChatMessage{ID: "m1", SenderID: "a", ReceiverID: "me", Content: "hi"}
	ch.handlers.OnMessage(msg)
	ch.handlers.OnMessage(msg)
	ch.handlers.OnMessage(model.ChatMessage{ID: "m2", SenderID: "me", ReceiverID: "a", Content: "hello"})

	require.Len(t, store.Messages(), 2)
}

func TestSendMessageWithoutConnectionIsNoOp(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)

	store.SendMessage("peer", "me", "hello")
	require.Empty(t, ch.emitted())
}

func TestSendMessageEmitsWithClientID(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))

	store.SendMessage("peer", "me", "hello")

	emits := ch.emitted()
	require.Len(t, emits, 1)
	require.Equal(t, model.EventMessage, emits[0].Type)

	var sent model.ChatMessage
	require.NoError(t, json.Unmarshal(emits[0].Data, &sent))
	require.NotEmpty(t, sent.ID)
	require.Equal(t, "peer", sent.ReceiverID)
	require.Equal(t, "me", sent.SenderID)
	require.Equal(t, "hello", sent.Content)
}

func TestPublishEmitsActivityForConnectedUser(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))

	store.Publish("Playing X by Y")

	emits := ch.emitted()
	require.Len(t, emits, 1)
	require.Equal(t, model.EventUpdateActivity, emits[0].Type)

	var update model.ActivityUpdate
	require.NoError(t, json.Unmarshal(emits[0].Data, &update))
	require.Equal(t, "me", update.UserID)
	require.Equal(t, "Playing X by Y", update.Activity)
}

func TestPublishWithoutConnectionIsSkipped(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)

	store.Publish("Playing X by Y")
	require.Empty(t, ch.emitted())
}

func TestDisconnectClearsOnlineSet(t *testing.T) {
	ch := &fakeChannel{}
	store := NewStore(nil, ch)
	require.NoError(t, store.InitSocket(context.Background(), "me"))
	ch.handlers.OnOnlineUsers([]string{"a"})

	store.Disconnect()
	require.Empty(t, store.OnlineUsers())
	require.False(t, store.IsConnected())
}
