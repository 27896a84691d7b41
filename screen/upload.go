package screen

import (
	"context"
	"fmt"

	"echofm/api"
	"echofm/model"
)

// Upload is the upload screen: submit new song metadata and normalize the
// created song into a playable track.
type Upload struct {
	api *api.Client
}

func NewUpload(apiClient *api.Client) *Upload {
	return &Upload{api: apiClient}
}

// Submit creates the song and returns its canonical track record.
func (u *Upload) Submit(ctx context.Context, req api.UploadSongRequest) (model.Track, error) {
	payload, err := u.api.UploadSong(ctx, req)
	if err != nil {
		return model.Track{}, err
	}
	track, err := model.TrackFromPayload(payload)
	if err != nil {
		return model.Track{}, fmt.Errorf("uploaded song not playable: %w", err)
	}
	return track, nil
}
