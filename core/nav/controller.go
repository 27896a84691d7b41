// Package nav implements the screen state machine: a single enumerated
// current screen plus a small handoff payload (selected song id, selected
// album). There is no history stack; back targets are declared per screen.
package nav

import (
	"sync"

	"echofm/model"
)

// Screen enumerates the client's screens.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenSearch       Screen = "search"
	ScreenLibrary      Screen = "library"
	ScreenChat         Screen = "chat"
	ScreenProfile      Screen = "profile"
	ScreenLogin        Screen = "login"
	ScreenSignup       Screen = "signup"
	ScreenSong         Screen = "song"
	ScreenAlbum        Screen = "album"
	ScreenArtist       Screen = "artist"
	ScreenUpload       Screen = "upload"
	ScreenSubscription Screen = "subscription"
	ScreenCreateAlbum  Screen = "create-album"
	ScreenManageAlbums Screen = "manage-albums"
	ScreenManageMusic  Screen = "manage-music"
)

// Action names a navigation intent.
type Action string

const (
	ActionGoHome        Action = "go-home"
	ActionGoSearch      Action = "go-search"
	ActionGoLibrary     Action = "go-library"
	ActionGoChat        Action = "go-chat"
	ActionGoProfile     Action = "go-profile"
	ActionGoLogin       Action = "go-login"
	ActionGoSignup      Action = "go-signup"
	ActionOpenSong      Action = "open-song"
	ActionOpenAlbum     Action = "open-album"
	ActionOpenArtist    Action = "open-artist"
	ActionOpenUpload    Action = "open-upload"
	ActionOpenSubscribe Action = "open-subscription"
	ActionCreateAlbum   Action = "create-album"
	ActionManageAlbums  Action = "manage-albums"
	ActionManageMusic   Action = "manage-music"
)

// rule is one row of the transition table.
type rule struct {
	to           Screen
	requiresAuth bool
}

// transitions maps each action to its destination. Actions are valid from
// every screen; gating is expressed in the table, not scattered at call
// sites.
var transitions = map[Action]rule{
	ActionGoHome:        {to: ScreenHome},
	ActionGoSearch:      {to: ScreenSearch},
	ActionGoLibrary:     {to: ScreenLibrary},
	ActionGoChat:        {to: ScreenChat},
	ActionGoProfile:     {to: ScreenProfile},
	ActionGoLogin:       {to: ScreenLogin},
	ActionGoSignup:      {to: ScreenSignup},
	ActionOpenSong:      {to: ScreenSong},
	ActionOpenAlbum:     {to: ScreenAlbum},
	ActionOpenArtist:    {to: ScreenArtist},
	ActionOpenUpload:    {to: ScreenUpload},
	ActionOpenSubscribe: {to: ScreenSubscription},
	ActionCreateAlbum:   {to: ScreenCreateAlbum, requiresAuth: true},
	ActionManageAlbums:  {to: ScreenManageAlbums, requiresAuth: true},
	ActionManageMusic:   {to: ScreenManageMusic, requiresAuth: true},
}

// backTargets hardcodes where "back" lands from each screen. Screens absent
// here fall back to home.
var backTargets = map[Screen]Screen{
	ScreenSignup:       ScreenLogin,
	ScreenLogin:        ScreenProfile,
	ScreenSong:         ScreenHome,
	ScreenAlbum:        ScreenLibrary,
	ScreenArtist:       ScreenHome,
	ScreenUpload:       ScreenProfile,
	ScreenSubscription: ScreenProfile,
	ScreenCreateAlbum:  ScreenLibrary,
	ScreenManageAlbums: ScreenLibrary,
	ScreenManageMusic:  ScreenManageAlbums,
}

// tabScreens are the members of the persistent bottom-tab set.
var tabScreens = map[Screen]bool{
	ScreenHome:    true,
	ScreenSearch:  true,
	ScreenLibrary: true,
	ScreenChat:    true,
	ScreenProfile: true,
}

// AuthState answers whether a session user exists. *session.Store satisfies it.
type AuthState interface {
	Authenticated() bool
}

// PlayerState answers whether a track is loaded. *player.Store's CurrentTrack
// is adapted via HasCurrentTrack in the app wiring.
type PlayerState interface {
	CurrentTrack() (model.Track, bool)
}

// Controller holds the current screen and the handoff payload.
type Controller struct {
	auth   AuthState
	player PlayerState

	mu            sync.RWMutex
	current       Screen
	selectedSong  string
	selectedAlbum *model.Album
}

// NewController starts on the home screen.
func NewController(auth AuthState, player PlayerState) *Controller {
	return &Controller{
		auth:    auth,
		player:  player,
		current: ScreenHome,
	}
}

// Current returns the current screen tag.
func (c *Controller) Current() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Do applies a navigation action. Actions whose destination requires
// authentication land on the login screen when no session user exists.
func (c *Controller) Do(action Action) Screen {
	r, ok := transitions[action]
	if !ok {
		return c.Current()
	}

	to := r.to
	if r.requiresAuth && !c.auth.Authenticated() {
		to = ScreenLogin
	}

	c.mu.Lock()
	c.current = to
	c.mu.Unlock()
	return to
}

// Back applies the hardcoded back target for the current screen.
func (c *Controller) Back() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	to, ok := backTargets[c.current]
	if !ok {
		to = ScreenHome
	}
	c.current = to
	return to
}

// Resolve substitutes the login screen for the profile screen when
// unauthenticated. The tab selection itself is unchanged; only the rendered
// screen differs.
func (c *Controller) Resolve(s Screen) Screen {
	if s == ScreenProfile && !c.auth.Authenticated() {
		return ScreenLogin
	}
	return s
}

// ShowTabBar reports whether the bottom tab bar is rendered for a screen.
func (c *Controller) ShowTabBar(s Screen) bool {
	return tabScreens[s]
}

// ShowMiniPlayer reports whether the mini player overlay is rendered:
// whenever a current track exists, independent of the active screen.
func (c *Controller) ShowMiniPlayer() bool {
	if c.player == nil {
		return false
	}
	_, ok := c.player.CurrentTrack()
	return ok
}

// OpenSong sets the song handoff payload and transitions to the song screen.
func (c *Controller) OpenSong(songID string) Screen {
	c.mu.Lock()
	c.selectedSong = songID
	c.mu.Unlock()
	return c.Do(ActionOpenSong)
}

// OpenAlbum sets the album handoff payload and transitions to the album
// screen.
func (c *Controller) OpenAlbum(album model.Album) Screen {
	c.mu.Lock()
	c.selectedAlbum = &album
	c.mu.Unlock()
	return c.Do(ActionOpenAlbum)
}

// SelectedSong returns the song handoff payload. The song screen treats a
// missing payload as a recoverable empty state.
func (c *Controller) SelectedSong() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedSong, c.selectedSong != ""
}

// SelectedAlbum returns the album handoff payload.
func (c *Controller) SelectedAlbum() (model.Album, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedAlbum == nil {
		return model.Album{}, false
	}
	return *c.selectedAlbum, true
}
