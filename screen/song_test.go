package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"echofm/api"
	"echofm/core/player"

	"github.com/stretchr/testify/require"
)

// songBackend serves a song detail plus a like endpoint whose failure mode is
// switchable.
type songBackend struct {
	server   *httptest.Server
	failLike atomic.Bool
}

func newSongBackend(t *testing.T) *songBackend {
	b := &songBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /songs/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"song": map[string]interface{}{
				"id": "s1", "title": "Waves", "artist": "Ada", "audioUrl": "http://cdn/s1.mp3",
			},
			"artist":   map[string]interface{}{"id": "a1", "fullName": "Ada"},
			"comments": []interface{}{},
		})
	})
	mux.HandleFunc("GET /songs/s1/like", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.LikeResult{Liked: false, LikesCount: 5})
	})
	mux.HandleFunc("POST /songs/s1/like", func(w http.ResponseWriter, r *http.Request) {
		if b.failLike.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "like failed"})
			return
		}
		json.NewEncoder(w).Encode(api.LikeResult{Liked: true, LikesCount: 6})
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func TestSongLoadAndLike(t *testing.T) {
	backend := newSongBackend(t)
	client := api.NewClient(backend.server.URL)
	s := NewSong(client, player.NewStore(nil, nil))

	s.Load(context.Background(), "s1")
	detail, err := s.Detail()
	require.NoError(t, err)
	require.Equal(t, "Waves", detail.Song["title"])

	liked, count := s.Like()
	require.False(t, liked)
	require.Equal(t, 5, count)

	require.NoError(t, s.ToggleLike(context.Background()))
	liked, count = s.Like()
	require.True(t, liked)
	require.Equal(t, 6, count)
}

func TestSongLikeRollsBackOnFailure(t *testing.T) {
	backend := newSongBackend(t)
	client := api.NewClient(backend.server.URL)
	s := NewSong(client, player.NewStore(nil, nil))

	s.Load(context.Background(), "s1")
	backend.failLike.Store(true)

	require.Error(t, s.ToggleLike(context.Background()))

	// The exact prior state is restored: (false, 5), never (true,5) or (false,6).
	liked, count := s.Like()
	require.False(t, liked)
	require.Equal(t, 5, count)
}

func TestSongMissingHandoffIsEmptyState(t *testing.T) {
	backend := newSongBackend(t)
	client := api.NewClient(backend.server.URL)
	s := NewSong(client, player.NewStore(nil, nil))

	s.Load(context.Background(), "")
	detail, err := s.Detail()
	require.NoError(t, err)
	require.Nil(t, detail)
}

func TestSongPlayHandsTrackToPlayer(t *testing.T) {
	backend := newSongBackend(t)
	client := api.NewClient(backend.server.URL)
	p := player.NewStore(nil, nil)
	s := NewSong(client, p)

	s.Load(context.Background(), "s1")
	s.Play()

	current, ok := p.CurrentTrack()
	require.True(t, ok)
	require.Equal(t, "s1", current.ID)
	require.Equal(t, "Waves", current.Title)
	require.True(t, p.IsPlaying())
}

func TestFetchGuardInvalidation(t *testing.T) {
	var g fetchGuard

	gen := g.begin()
	require.True(t, g.still(gen))

	// A newer fetch supersedes the old one.
	newer := g.begin()
	require.False(t, g.still(gen))
	require.True(t, g.still(newer))

	// Teardown invalidates everything in flight.
	g.cancel()
	require.False(t, g.still(newer))
}
