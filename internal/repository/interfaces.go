package repository

import (
	"context"

	"github.com/google/uuid"

	"mediavault/internal/domain/comment"
	"mediavault/internal/domain/file"
)

type FileRepository interface {
	Create(ctx context.Context, f *file.File) error
	GetByID(ctx context.Context, id uuid.UUID) (file.File, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAccessible returns files owned by userID plus files whose share
	// list contains userEmail, filtered and sorted per the query.
	ListAccessible(ctx context.Context, userID, userEmail string, q file.ListQuery) ([]file.File, error)

	// ListPendingVideos returns the poller's working set: video records
	// owned by userID still in the preparing state.
	ListPendingVideos(ctx context.Context, userID string) ([]file.File, error)

	Rename(ctx context.Context, id uuid.UUID, name string) error
	UpdateUsers(ctx context.Context, id uuid.UUID, users []string) error

	// ApplyMuxUpdate patches the record's processing fields. Status moves
	// are forward-only and asset/playback ids are write-once; fields that
	// would violate either rule are dropped from the patch.
	ApplyMuxUpdate(ctx context.Context, id uuid.UUID, upd file.MuxUpdate) (file.File, error)

	TotalSpace(ctx context.Context, userID string) (file.SpaceUsage, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *comment.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (comment.Comment, error)
	ListByDocument(ctx context.Context, documentID string) ([]comment.Comment, error)
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
