package services

import (
	"context"
	"fmt"

	"mediavault/internal/mux"
	vault_errors "mediavault/pkg/errors"
)

// StatusService translates an upload or asset identifier into the
// normalized status payload the poller and the status endpoint consume.
type StatusService struct {
	api MuxAPI
}

func NewStatusService(api MuxAPI) *StatusService {
	return &StatusService{api: api}
}

type UploadStatus struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	AssetID string `json:"assetId,omitempty"`
}

type AssetStatus struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	PlaybackIDs []mux.PlaybackID `json:"playbackIds,omitempty"`
	Duration    float64          `json:"duration,omitempty"`
	AspectRatio string           `json:"aspectRatio,omitempty"`
	Created     string           `json:"created,omitempty"`
	Thumbnail   string           `json:"thumbnail,omitempty"`
}

type StatusPayload struct {
	Upload *UploadStatus `json:"upload"`
	Asset  *AssetStatus  `json:"asset,omitempty"`
}

// Check resolves whichever identifier is available, preferring the
// upload lookup chain (upload -> asset) when both are given.
func (s *StatusService) Check(ctx context.Context, uploadID, assetID string) (StatusPayload, error) {
	if uploadID == "" && assetID == "" {
		return StatusPayload{}, vault_errors.ErrInvalidInput
	}

	var payload StatusPayload
	var asset *mux.Asset

	if uploadID != "" {
		up, err := s.api.GetUpload(ctx, uploadID)
		if err != nil {
			return StatusPayload{}, err
		}
		payload.Upload = &UploadStatus{ID: up.ID, Status: up.Status, AssetID: up.AssetID}

		if up.AssetID != "" {
			a, err := s.api.GetAsset(ctx, up.AssetID)
			if err != nil {
				return StatusPayload{}, err
			}
			asset = &a
		}
	} else {
		a, err := s.api.GetAsset(ctx, assetID)
		if err != nil {
			return StatusPayload{}, err
		}
		asset = &a
	}

	if asset != nil {
		status := &AssetStatus{
			ID:          asset.ID,
			Status:      asset.Status,
			PlaybackIDs: asset.PlaybackIDs,
			Duration:    asset.Duration,
			AspectRatio: asset.AspectRatio,
			Created:     asset.CreatedAt,
		}
		// A thumbnail exists only once the asset is ready and playable.
		if asset.Status == "ready" && len(asset.PlaybackIDs) > 0 {
			status.Thumbnail = ThumbnailURL(asset.PlaybackIDs[0].ID)
		}
		payload.Asset = status
	}

	return payload, nil
}

// ThumbnailURL derives the public thumbnail URL for a playback id.
func ThumbnailURL(playbackID string) string {
	return fmt.Sprintf("%s/%s/thumbnail.jpg?width=400&height=225&fit_mode=smartcrop", mux.ImageBaseURL, playbackID)
}
