package screen

import (
	"context"

	"echofm/api"
	"echofm/core/chat"
	"echofm/core/session"
	"echofm/logger"
)

// Auth is the login/signup screen controller.
type Auth struct {
	api     *api.Client
	session *session.Store
	chat    *chat.Store
}

func NewAuth(apiClient *api.Client, sessionStore *session.Store, chatStore *chat.Store) *Auth {
	return &Auth{api: apiClient, session: sessionStore, chat: chatStore}
}

// Login authenticates and installs the session. On failure any partial
// session state is cleared and the backend's message is surfaced through the
// returned error.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.session.Logout()
		logger.Warn("login failed", logger.ErrorField(err))
		return err
	}

	a.session.Login(resp.User, resp.Token)
	if err := a.chat.InitSocket(ctx, resp.User.ID); err != nil {
		// The realtime channel is a soft dependency; login still succeeds.
		logger.Warn("realtime channel unavailable after login", logger.ErrorField(err))
	}
	return nil
}

// Signup registers an account. The user is installed without a token; there
// is no auto-login.
func (a *Auth) Signup(ctx context.Context, fullName, email, password string) error {
	resp, err := a.api.Signup(ctx, fullName, email, password)
	if err != nil {
		return err
	}
	a.session.SetUser(resp.User)
	return nil
}

// Logout clears the session and drops the realtime connection.
func (a *Auth) Logout() {
	a.chat.Disconnect()
	a.session.Logout()
}
