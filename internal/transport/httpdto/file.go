package httpdto

// UploadURLRequest is used for POST /api/files/upload-url
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

// UploadURLResponse carries a one-time backup-store write destination.
type UploadURLResponse struct {
	Key     string            `json:"key"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// CreateFileRequest is used for POST /api/files
type CreateFileRequest struct {
	Name       string   `json:"name" binding:"required"`
	Size       int64    `json:"size" binding:"required"`
	StorageKey string   `json:"storageKey" binding:"required"`
	Users      []string `json:"users"`
}

// CreateVideoFileRequest is used for POST /api/files/video
type CreateVideoFileRequest struct {
	Name        string   `json:"name" binding:"required"`
	Size        int64    `json:"size" binding:"required"`
	StorageKey  string   `json:"storageKey" binding:"required"`
	Users       []string `json:"users"`
	MuxUploadID string   `json:"muxUploadId" binding:"required"`
	MuxAssetID  string   `json:"muxAssetId"`
}

// RenameFileRequest is used for PATCH /api/files/:id/rename
type RenameFileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateFileUsersRequest is used for PATCH /api/files/:id/users
type UpdateFileUsersRequest struct {
	Users []string `json:"users"`
}
