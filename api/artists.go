package api

import (
	"context"
	"net/url"

	"echofm/model"
)

// ArtistProfile is the artist main-page payload.
type ArtistProfile struct {
	Artist         model.User               `json:"artist"`
	Albums         []model.Album            `json:"albums"`
	Songs          []map[string]interface{} `json:"songs"`
	FollowersCount int                      `json:"followersCount"`
}

// FollowResult is the reconciled follow state returned by the follow endpoints.
type FollowResult struct {
	Following      bool `json:"following"`
	FollowersCount int  `json:"followersCount"`
}

// GetArtist fetches an artist's profile.
func (c *Client) GetArtist(ctx context.Context, id string) (*ArtistProfile, error) {
	var profile ArtistProfile
	if err := c.get(ctx, "/artists/"+url.PathEscape(id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FollowStatus fetches the caller's follow state for an artist.
func (c *Client) FollowStatus(ctx context.Context, id string) (*FollowResult, error) {
	var result FollowResult
	if err := c.get(ctx, "/artists/"+url.PathEscape(id)+"/follow", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FollowArtist follows an artist and returns the reconciled state.
func (c *Client) FollowArtist(ctx context.Context, id string) (*FollowResult, error) {
	var result FollowResult
	if err := c.post(ctx, "/artists/"+url.PathEscape(id)+"/follow", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnfollowArtist unfollows an artist and returns the reconciled state.
func (c *Client) UnfollowArtist(ctx context.Context, id string) (*FollowResult, error) {
	var result FollowResult
	if err := c.del(ctx, "/artists/"+url.PathEscape(id)+"/follow", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
