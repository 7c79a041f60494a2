package file

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a stored file for filtering and quota accounting.
type Type string

const (
	TypeDocument Type = "document"
	TypeImage    Type = "image"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeOther    Type = "other"
)

// MuxStatus is the processing state mirrored from the video provider.
// Transitions are forward-only: preparing -> ready or preparing -> errored.
type MuxStatus string

const (
	StatusPreparing MuxStatus = "preparing"
	StatusReady     MuxStatus = "ready"
	StatusErrored   MuxStatus = "errored"
)

func (s MuxStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusErrored
}

// CanTransition reports whether moving from s to next is allowed.
// A status never reverts once it has left preparing.
func (s MuxStatus) CanTransition(next MuxStatus) bool {
	if s == next {
		return true
	}
	return s == StatusPreparing && next.IsTerminal()
}

// File represents the files table: the persisted record for an uploaded
// file, distinct from the provider-side asset it may reference.
type File struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      Type      `gorm:"type:varchar(16);not null;index" json:"type"`
	Extension string    `json:"extension"`
	Size      int64     `gorm:"not null" json:"size"`

	// URL is the public backup-store URL; StorageKey is the stable
	// backup storage reference used to release the blob on delete.
	URL        string `json:"url"`
	StorageKey string `gorm:"not null" json:"storageKey"`

	Owner     string   `gorm:"not null;index" json:"owner"`
	AccountID string   `gorm:"not null;index" json:"accountId"`
	Users     []string `gorm:"serializer:json;type:jsonb" json:"users"`

	// Video-only fields, populated by the reconciliation poller.
	MuxUploadID   string    `gorm:"index" json:"muxUploadId,omitempty"`
	MuxAssetID    string    `json:"muxAssetId,omitempty"`
	MuxStatus     MuxStatus `gorm:"type:varchar(16);index" json:"muxStatus,omitempty"`
	MuxPlaybackID string    `json:"muxPlaybackId,omitempty"`
	MuxThumbnail  string    `json:"muxThumbnail,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updatedAt"`
}

func (File) TableName() string {
	return "files"
}

// MuxUpdate is a partial patch applied by the poller or the update-file
// endpoint. Empty fields are left untouched; AssetID and PlaybackID are
// write-once and ignored when the record already carries a value.
type MuxUpdate struct {
	Status     MuxStatus
	AssetID    string
	PlaybackID string
	Thumbnail  string
}

func (u MuxUpdate) Empty() bool {
	return u.Status == "" && u.AssetID == "" && u.PlaybackID == "" && u.Thumbnail == ""
}

// ListQuery narrows a file listing.
type ListQuery struct {
	Types      []Type
	SearchText string
	Sort       string // "<column>-asc" or "<column>-desc"
	Limit      int
}

// SpaceUsage summarizes storage consumption per file type.
type SpaceUsage struct {
	ByType map[Type]TypeUsage `json:"byType"`
	Used   int64              `json:"used"`
	All    int64              `json:"all"`
}

type TypeUsage struct {
	Size       int64     `json:"size"`
	LatestDate time.Time `json:"latestDate"`
}

// TypeForName derives the file type and extension from a filename,
// mirroring how the uploader classifies files before record creation.
func TypeForName(name string) (Type, string) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	switch ext {
	case "pdf", "doc", "docx", "txt", "xls", "xlsx", "csv", "rtf", "ods", "ppt", "pptx", "md", "html", "htm", "odt":
		return TypeDocument, ext
	case "jpg", "jpeg", "png", "gif", "bmp", "svg", "webp":
		return TypeImage, ext
	case "mp4", "avi", "mov", "mkv", "webm":
		return TypeVideo, ext
	case "mp3", "wav", "ogg", "flac", "aac", "m4a":
		return TypeAudio, ext
	default:
		return TypeOther, ext
	}
}
