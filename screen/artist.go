package screen

import (
	"context"
	"sync"

	"echofm/api"
	"echofm/core/optimistic"
	"echofm/logger"
)

// followState pairs the following flag with the follower count for exact
// rollback.
type followState struct {
	Following bool
	Count     int
}

// Artist is the artist profile screen: profile, discography and the follow
// toggle.
type Artist struct {
	api *api.Client

	guard    fetchGuard
	mu       sync.Mutex
	artistID string
	profile  *api.ArtistProfile
	follow   followState
	err      error
}

func NewArtist(apiClient *api.Client) *Artist {
	return &Artist{api: apiClient}
}

// Load fetches the artist profile and follow status.
func (a *Artist) Load(ctx context.Context, artistID string) {
	if artistID == "" {
		a.mu.Lock()
		a.artistID = ""
		a.profile = nil
		a.err = nil
		a.mu.Unlock()
		return
	}

	gen := a.guard.begin()

	profile, err := a.api.GetArtist(ctx, artistID)
	var follow *api.FollowResult
	if err == nil {
		follow, err = a.api.FollowStatus(ctx, artistID)
	}
	if !a.guard.still(gen) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.artistID = artistID
	if err != nil {
		a.err = err
		logger.Error("failed to load artist", logger.ErrorField(err), logger.String("artist", artistID))
		return
	}
	a.profile = profile
	a.follow = followState{Following: follow.Following, Count: follow.FollowersCount}
	a.err = nil
}

// Close invalidates in-flight fetches.
func (a *Artist) Close() {
	a.guard.cancel()
}

// Profile returns the loaded profile and the last error.
func (a *Artist) Profile() (*api.ArtistProfile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile, a.err
}

// Follow returns the current follow state.
func (a *Artist) Follow() (following bool, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.follow.Following, a.follow.Count
}

// ToggleFollow flips the follow optimistically with exact rollback.
func (a *Artist) ToggleFollow(ctx context.Context) error {
	a.mu.Lock()
	artistID := a.artistID
	prior := a.follow
	a.mu.Unlock()
	if artistID == "" {
		return nil
	}

	hoped := followState{Following: !prior.Following, Count: prior.Count + 1}
	call := a.api.FollowArtist
	if prior.Following {
		hoped.Count = prior.Count - 1
		call = a.api.UnfollowArtist
	}

	_, err := optimistic.Do(ctx, prior, hoped, a.setFollow, func(ctx context.Context) (followState, error) {
		result, err := call(ctx, artistID)
		if err != nil {
			return followState{}, err
		}
		return followState{Following: result.Following, Count: result.FollowersCount}, nil
	})
	return err
}

func (a *Artist) setFollow(state followState) {
	a.mu.Lock()
	a.follow = state
	a.mu.Unlock()
}
