package api

import (
	"context"
	"fmt"
	"net/url"

	"echofm/model"
)

// SongDetail is the song detail payload: the song itself, its artist and the
// comment thread.
type SongDetail struct {
	Song     map[string]interface{} `json:"song"`
	Artist   model.User             `json:"artist"`
	Comments []model.Comment        `json:"comments"`
}

// LikeResult is the reconciled like state returned by every like endpoint.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// GetSong fetches a song's detail.
func (c *Client) GetSong(ctx context.Context, id string) (*SongDetail, error) {
	var detail SongDetail
	if err := c.get(ctx, "/songs/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchSongs runs a search query. Result ranking is owned by the backend.
func (c *Client) SearchSongs(ctx context.Context, query string) ([]map[string]interface{}, error) {
	var resp struct {
		Songs []map[string]interface{} `json:"songs"`
	}
	path := fmt.Sprintf("/songs/search?q=%s", url.QueryEscape(query))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Songs, nil
}

// SongLikeStatus fetches the caller's like state for a song.
func (c *Client) SongLikeStatus(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.get(ctx, "/songs/"+url.PathEscape(id)+"/like", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeSong likes a song and returns the reconciled state.
func (c *Client) LikeSong(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.post(ctx, "/songs/"+url.PathEscape(id)+"/like", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnlikeSong removes a like and returns the reconciled state.
func (c *Client) UnlikeSong(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.del(ctx, "/songs/"+url.PathEscape(id)+"/like", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadSongRequest is the metadata submitted for a new song. The media itself
// is uploaded out of band; the backend returns the created song payload.
type UploadSongRequest struct {
	Title    string  `json:"title"`
	AudioURL string  `json:"audioUrl"`
	CoverURL string  `json:"coverUrl,omitempty"`
	AlbumID  string  `json:"albumId,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// UploadSong submits new song metadata.
func (c *Client) UploadSong(ctx context.Context, req UploadSongRequest) (map[string]interface{}, error) {
	var song map[string]interface{}
	if err := c.post(ctx, "/songs", req, &song); err != nil {
		return nil, err
	}
	return song, nil
}
