package api

import (
	"context"
	"net/url"

	"echofm/model"
)

// ChatUsers fetches the roster of chat-capable users.
func (c *Client) ChatUsers(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Users []model.User `json:"users"`
	}
	if err := c.get(ctx, "/chat/users", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ChatMessages fetches the message history with one peer.
func (c *Client) ChatMessages(ctx context.Context, peerID string) ([]model.ChatMessage, error) {
	var resp struct {
		Messages []model.ChatMessage `json:"messages"`
	}
	if err := c.get(ctx, "/chat/messages/"+url.PathEscape(peerID), &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
