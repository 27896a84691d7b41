package api

import (
	"context"

	"echofm/model"
)

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// SignupResponse is the payload of a successful signup. Signup does not log
// the user in, so no token is issued.
type SignupResponse struct {
	User model.User `json:"user"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*SignupResponse, error) {
	req := map[string]string{"fullName": fullName, "email": email, "password": password}
	var resp SignupResponse
	if err := c.post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
