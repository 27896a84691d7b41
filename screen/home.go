package screen

import (
	"context"
	"sync"

	"echofm/api"
	"echofm/core/player"
	"echofm/logger"
	"echofm/model"
)

// Home is the home screen: the trending/newest feed plus the "play" callback
// that feeds the player.
type Home struct {
	api    *api.Client
	player *player.Store

	guard fetchGuard
	mu    sync.Mutex
	feed  *api.Feed
	err   error
}

func NewHome(apiClient *api.Client, playerStore *player.Store) *Home {
	return &Home{api: apiClient, player: playerStore}
}

// Load fetches the home feed. A response arriving after Close or a newer
// Load is dropped.
func (h *Home) Load(ctx context.Context) {
	gen := h.guard.begin()

	feed, err := h.api.HomeFeed(ctx)
	if !h.guard.still(gen) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.err = err
		logger.Error("failed to load home feed", logger.ErrorField(err))
		return
	}
	h.feed = feed
	h.err = nil
}

// Close invalidates in-flight fetches (screen unmount).
func (h *Home) Close() {
	h.guard.cancel()
}

// Feed returns the loaded feed and the last fetch error.
func (h *Home) Feed() (*api.Feed, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.feed, h.err
}

// PlaySong normalizes a feed item and jumps the player to it. When the feed
// is loaded, the newest songs seed the queue first so next/previous work.
func (h *Home) PlaySong(payload map[string]interface{}) error {
	track, err := model.TrackFromPayload(payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	feed := h.feed
	h.mu.Unlock()
	if feed != nil {
		if songs, err := model.TracksFromPayloads(feed.NewestSongs); err == nil && len(songs) > 0 {
			if err := h.player.InitializeQueue(songs); err != nil {
				logger.Warn("failed to seed queue from feed", logger.ErrorField(err))
			}
		}
	}

	h.player.SetCurrentSong(track)
	return nil
}
