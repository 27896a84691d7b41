package screen

import (
	"context"
	"sync"

	"echofm/api"
	"echofm/core/player"
	"echofm/logger"
	"echofm/model"
)

// Search is the search screen. Result ranking is owned by the backend; the
// screen only issues the query and normalizes what comes back.
type Search struct {
	api    *api.Client
	player *player.Store

	guard   fetchGuard
	mu      sync.Mutex
	query   string
	results []model.Track
	err     error
}

func NewSearch(apiClient *api.Client, playerStore *player.Store) *Search {
	return &Search{api: apiClient, player: playerStore}
}

// Run executes a search. A response for a superseded query is dropped.
func (s *Search) Run(ctx context.Context, query string) {
	gen := s.guard.begin()

	payloads, err := s.api.SearchSongs(ctx, query)
	if !s.guard.still(gen) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	if err != nil {
		s.err = err
		logger.Error("search failed", logger.ErrorField(err), logger.String("query", query))
		return
	}
	results, normErr := model.TracksFromPayloads(payloads)
	if normErr != nil {
		logger.Warn("skipped malformed search results", logger.ErrorField(normErr))
	}
	s.results = results
	s.err = nil
}

// Close invalidates in-flight queries.
func (s *Search) Close() {
	s.guard.cancel()
}

// Results returns the current query, its results and the last error.
func (s *Search) Results() (string, []model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, append([]model.Track(nil), s.results...), s.err
}

// Play seeds the queue with the result list and jumps to the chosen track.
func (s *Search) Play(track model.Track) {
	s.mu.Lock()
	results := append([]model.Track(nil), s.results...)
	s.mu.Unlock()

	if len(results) > 0 {
		if err := s.player.InitializeQueue(results); err != nil {
			logger.Warn("failed to seed queue from search results", logger.ErrorField(err))
		}
	}
	s.player.SetCurrentSong(track)
}
