package api

import (
	"context"
	"net/url"

	"echofm/model"
)

// AlbumDetail is the album detail payload: the album plus its track list.
type AlbumDetail struct {
	Album model.Album              `json:"album"`
	Songs []map[string]interface{} `json:"songs"`
}

// GetAlbum fetches an album and its track list.
func (c *Client) GetAlbum(ctx context.Context, id string) (*AlbumDetail, error) {
	var detail AlbumDetail
	if err := c.get(ctx, "/albums/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// MyAlbums lists the albums owned by the authenticated artist.
func (c *Client) MyAlbums(ctx context.Context) ([]model.Album, error) {
	var resp struct {
		Albums []model.Album `json:"albums"`
	}
	if err := c.get(ctx, "/albums/mine", &resp); err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

// CreateAlbum creates an album for the authenticated artist.
func (c *Client) CreateAlbum(ctx context.Context, title, coverURL string, releaseYear int) (*model.Album, error) {
	req := map[string]interface{}{
		"title":       title,
		"coverUrl":    coverURL,
		"releaseYear": releaseYear,
	}
	var album model.Album
	if err := c.post(ctx, "/albums", req, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// AlbumLikeStatus fetches the caller's like state for an album.
func (c *Client) AlbumLikeStatus(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.get(ctx, "/albums/"+url.PathEscape(id)+"/like", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeAlbum likes an album and returns the reconciled state.
func (c *Client) LikeAlbum(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.post(ctx, "/albums/"+url.PathEscape(id)+"/like", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnlikeAlbum removes a like and returns the reconciled state.
func (c *Client) UnlikeAlbum(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.del(ctx, "/albums/"+url.PathEscape(id)+"/like", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
