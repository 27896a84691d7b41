package screen

import (
	"context"
	"sync"

	"echofm/api"
	"echofm/core/optimistic"
	"echofm/core/player"
	"echofm/logger"
	"echofm/model"
)

// Album is the album detail screen: album metadata, the track list, the like
// toggle, and "play album" into the player.
type Album struct {
	api    *api.Client
	player *player.Store

	guard   fetchGuard
	mu      sync.Mutex
	albumID string
	album   *model.Album
	tracks  []model.Track
	like    likeState
	err     error
}

func NewAlbum(apiClient *api.Client, playerStore *player.Store) *Album {
	return &Album{api: apiClient, player: playerStore}
}

// Load fetches the album and like status. A missing album id is a
// recoverable empty state.
func (a *Album) Load(ctx context.Context, albumID string) {
	if albumID == "" {
		a.mu.Lock()
		a.albumID = ""
		a.album = nil
		a.tracks = nil
		a.err = nil
		a.mu.Unlock()
		return
	}

	gen := a.guard.begin()

	detail, err := a.api.GetAlbum(ctx, albumID)
	var like *api.LikeResult
	if err == nil {
		like, err = a.api.AlbumLikeStatus(ctx, albumID)
	}
	if !a.guard.still(gen) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.albumID = albumID
	if err != nil {
		a.err = err
		logger.Error("failed to load album", logger.ErrorField(err), logger.String("album", albumID))
		return
	}
	a.album = &detail.Album
	a.like = likeState{Liked: like.Liked, Count: like.LikesCount}
	a.err = nil

	tracks, normErr := model.TracksFromPayloads(detail.Songs)
	if normErr != nil {
		logger.Warn("skipped malformed album tracks", logger.ErrorField(normErr))
	}
	a.tracks = tracks
}

// Close invalidates in-flight fetches.
func (a *Album) Close() {
	a.guard.cancel()
}

// Detail returns the loaded album, its tracks and the last error.
func (a *Album) Detail() (*model.Album, []model.Track, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.album, append([]model.Track(nil), a.tracks...), a.err
}

// Like returns the current like state.
func (a *Album) Like() (liked bool, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.like.Liked, a.like.Count
}

// ToggleLike mirrors the song screen's optimistic like flow.
func (a *Album) ToggleLike(ctx context.Context) error {
	a.mu.Lock()
	albumID := a.albumID
	prior := a.like
	a.mu.Unlock()
	if albumID == "" {
		return nil
	}

	hoped := likeState{Liked: !prior.Liked, Count: prior.Count + 1}
	call := a.api.LikeAlbum
	if prior.Liked {
		hoped.Count = prior.Count - 1
		call = a.api.UnlikeAlbum
	}

	_, err := optimistic.Do(ctx, prior, hoped, a.setLike, func(ctx context.Context) (likeState, error) {
		result, err := call(ctx, albumID)
		if err != nil {
			return likeState{}, err
		}
		return likeState{Liked: result.Liked, Count: result.LikesCount}, nil
	})
	return err
}

func (a *Album) setLike(state likeState) {
	a.mu.Lock()
	a.like = state
	a.mu.Unlock()
}

// Play replaces the player queue with the album and starts at startIndex.
func (a *Album) Play(startIndex int) error {
	a.mu.Lock()
	tracks := append([]model.Track(nil), a.tracks...)
	a.mu.Unlock()
	return a.player.PlayAlbum(tracks, startIndex)
}
