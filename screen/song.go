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

// likeState pairs the liked flag with the like count so optimistic rollback
// restores both together.
type likeState struct {
	Liked bool
	Count int
}

// Song is the song detail screen: the song, its artist, the comment thread
// and the like toggle.
type Song struct {
	api    *api.Client
	player *player.Store

	guard  fetchGuard
	mu     sync.Mutex
	songID string
	detail *api.SongDetail
	track  *model.Track
	like   likeState
	err    error
}

func NewSong(apiClient *api.Client, playerStore *player.Store) *Song {
	return &Song{api: apiClient, player: playerStore}
}

// Load fetches the detail and like status for songID. Navigating here
// without a song id is a recoverable empty state, not a crash.
func (s *Song) Load(ctx context.Context, songID string) {
	if songID == "" {
		s.mu.Lock()
		s.songID = ""
		s.detail = nil
		s.track = nil
		s.err = nil
		s.mu.Unlock()
		return
	}

	gen := s.guard.begin()

	detail, err := s.api.GetSong(ctx, songID)
	var like *api.LikeResult
	if err == nil {
		like, err = s.api.SongLikeStatus(ctx, songID)
	}
	if !s.guard.still(gen) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.songID = songID
	if err != nil {
		s.err = err
		logger.Error("failed to load song", logger.ErrorField(err), logger.String("song", songID))
		return
	}
	s.detail = detail
	s.like = likeState{Liked: like.Liked, Count: like.LikesCount}
	s.err = nil

	if track, normErr := model.TrackFromPayload(detail.Song); normErr == nil {
		s.track = &track
	} else {
		logger.Warn("song detail payload not playable", logger.ErrorField(normErr))
		s.track = nil
	}
}

// Close invalidates in-flight fetches.
func (s *Song) Close() {
	s.guard.cancel()
}

// Detail returns the loaded detail and the last error.
func (s *Song) Detail() (*api.SongDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail, s.err
}

// Like returns the current like state.
func (s *Song) Like() (liked bool, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.like.Liked, s.like.Count
}

// ToggleLike flips the like optimistically and reconciles with the backend;
// on failure the prior state is restored exactly.
func (s *Song) ToggleLike(ctx context.Context) error {
	s.mu.Lock()
	songID := s.songID
	prior := s.like
	s.mu.Unlock()
	if songID == "" {
		return nil
	}

	hoped := likeState{Liked: !prior.Liked, Count: prior.Count + 1}
	call := s.api.LikeSong
	if prior.Liked {
		hoped.Count = prior.Count - 1
		call = s.api.UnlikeSong
	}

	_, err := optimistic.Do(ctx, prior, hoped, s.setLike, func(ctx context.Context) (likeState, error) {
		result, err := call(ctx, songID)
		if err != nil {
			return likeState{}, err
		}
		return likeState{Liked: result.Liked, Count: result.LikesCount}, nil
	})
	return err
}

func (s *Song) setLike(state likeState) {
	s.mu.Lock()
	s.like = state
	s.mu.Unlock()
}

// Play hands the loaded track to the player.
func (s *Song) Play() {
	s.mu.Lock()
	track := s.track
	s.mu.Unlock()
	if track == nil {
		return
	}
	s.player.SetCurrentSong(*track)
}
