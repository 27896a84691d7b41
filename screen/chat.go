package screen

import (
	"context"

	"echofm/core/chat"
	"echofm/core/session"
	"echofm/model"
)

// Chat is the chat screen: a thin controller over the chat store that ties
// the roster, the selected peer's history and sends to the session user.
type Chat struct {
	chat    *chat.Store
	session *session.Store
}

func NewChat(chatStore *chat.Store, sessionStore *session.Store) *Chat {
	return &Chat{chat: chatStore, session: sessionStore}
}

// Open loads the roster and connects the realtime channel for the session
// user.
func (c *Chat) Open(ctx context.Context) {
	if user, ok := c.session.User(); ok {
		_ = c.chat.InitSocket(ctx, user.ID)
	}
	c.chat.FetchUsers(ctx)
}

// SelectPeer loads the history with the given peer.
func (c *Chat) SelectPeer(ctx context.Context, peerID string) {
	c.chat.FetchMessages(ctx, peerID)
}

// Send sends a message from the session user to the selected peer.
func (c *Chat) Send(content string) {
	user, ok := c.session.User()
	if !ok {
		return
	}
	peer := c.chat.SelectedUser()
	if peer == "" {
		return
	}
	c.chat.SendMessage(peer, user.ID, content)
}

// Users returns the roster.
func (c *Chat) Users() []model.User {
	return c.chat.Users()
}

// Messages returns the selected peer's history.
func (c *Chat) Messages() []model.ChatMessage {
	return c.chat.Messages()
}

// PeerStatus reports whether a peer is online and their activity string.
func (c *Chat) PeerStatus(peerID string) (online bool, activity string) {
	return c.chat.IsOnline(peerID), c.chat.Activity(peerID)
}
