package api

import (
	"context"

	"echofm/model"
)

// Feed is the home screen payload. Song lists arrive loosely typed and are
// normalized by the screens before entering the player.
type Feed struct {
	TrendingSongs  []map[string]interface{} `json:"trendingSongs"`
	TrendingAlbums []model.Album            `json:"trendingAlbums"`
	NewestSongs    []map[string]interface{} `json:"newestSongs"`
}

// HomeFeed fetches trending songs/albums and the newest songs.
func (c *Client) HomeFeed(ctx context.Context) (*Feed, error) {
	var feed Feed
	if err := c.get(ctx, "/home", &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
