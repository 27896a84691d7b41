package screen

import (
	"context"
	"sync"

	"echofm/api"
	"echofm/core/nav"
	"echofm/logger"
	"echofm/model"
)

// Library is the library screen: the artist's own albums plus the auth-gated
// create/manage intents routed through the navigation controller.
type Library struct {
	api *api.Client
	nav *nav.Controller

	guard  fetchGuard
	mu     sync.Mutex
	albums []model.Album
	err    error
}

func NewLibrary(apiClient *api.Client, controller *nav.Controller) *Library {
	return &Library{api: apiClient, nav: controller}
}

// Load fetches the caller's albums.
func (l *Library) Load(ctx context.Context) {
	gen := l.guard.begin()

	albums, err := l.api.MyAlbums(ctx)
	if !l.guard.still(gen) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = err
		logger.Error("failed to load library", logger.ErrorField(err))
		return
	}
	l.albums = albums
	l.err = nil
}

// Close invalidates in-flight fetches.
func (l *Library) Close() {
	l.guard.cancel()
}

// Albums returns the loaded albums and the last error.
func (l *Library) Albums() ([]model.Album, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Album(nil), l.albums...), l.err
}

// CreateAlbum routes the create-album intent; unauthenticated users land on
// the login screen.
func (l *Library) CreateAlbum() nav.Screen {
	return l.nav.Do(nav.ActionCreateAlbum)
}

// ManageAlbums routes the manage-albums intent, with the same gating.
func (l *Library) ManageAlbums() nav.Screen {
	return l.nav.Do(nav.ActionManageAlbums)
}

// ManageMusic routes the manage-music intent, with the same gating.
func (l *Library) ManageMusic() nav.Screen {
	return l.nav.Do(nav.ActionManageMusic)
}

// OpenAlbum sets the album handoff payload and navigates to its screen.
func (l *Library) OpenAlbum(album model.Album) nav.Screen {
	return l.nav.OpenAlbum(album)
}
