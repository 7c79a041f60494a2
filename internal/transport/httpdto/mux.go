package httpdto

import "mediavault/internal/domain/file"

// The /api/mux endpoints keep the wire shapes the web client consumes
// directly, without the standard response envelope.

// DirectUploadRequest is used for POST /api/mux/direct-upload
type DirectUploadRequest struct {
	Filename string `json:"filename"`
	FileSize int64  `json:"fileSize"`
}

// DirectUploadResponse is returned with the provider's one-time target.
// AssetID is always null at creation; it appears once the provider
// associates an asset with the finished upload.
type DirectUploadResponse struct {
	UploadID  string  `json:"uploadId"`
	UploadURL string  `json:"uploadUrl"`
	AssetID   *string `json:"assetId"`
}

// UpdateFileRequest is used for POST /api/mux/update-file
type UpdateFileRequest struct {
	FileID        string `json:"fileId"`
	MuxAssetID    string `json:"muxAssetId,omitempty"`
	MuxPlaybackID string `json:"muxPlaybackId,omitempty"`
	MuxStatus     string `json:"muxStatus,omitempty"`
	MuxThumbnail  string `json:"muxThumbnail,omitempty"`
}

// UpdateFileResponse is returned after patching a record.
type UpdateFileResponse struct {
	Success bool      `json:"success"`
	File    file.File `json:"file"`
}

// ErrorBody is the bare error shape the /api/mux endpoints return.
type ErrorBody struct {
	Error string `json:"error"`
}
