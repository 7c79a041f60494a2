package services

import (
	"context"

	"mediavault/internal/mux"
	"mediavault/internal/storage"
	vault_errors "mediavault/pkg/errors"
)

// MuxAPI is the subset of the Mux client the services depend on.
type MuxAPI interface {
	CreateDirectUpload(ctx context.Context, corsOrigin string) (mux.Upload, error)
	GetUpload(ctx context.Context, uploadID string) (mux.Upload, error)
	GetAsset(ctx context.Context, assetID string) (mux.Asset, error)
}

// UploadService is the direct-upload broker plus the backup storage
// writer: it hands out one-time upload destinations but never carries
// file bytes itself.
type UploadService struct {
	api        MuxAPI
	backup     *storage.Client
	corsOrigin string
}

func NewUploadService(api MuxAPI, backup *storage.Client, corsOrigin string) *UploadService {
	return &UploadService{api: api, backup: backup, corsOrigin: corsOrigin}
}

type DirectUpload struct {
	UploadID  string
	UploadURL string
}

// CreateDirectUpload obtains a single-use video upload destination from
// the provider. No retry here; the caller decides whether to retry.
func (s *UploadService) CreateDirectUpload(ctx context.Context, filename string, fileSize int64) (DirectUpload, error) {
	if filename == "" || fileSize <= 0 {
		return DirectUpload{}, vault_errors.ErrInvalidInput
	}
	up, err := s.api.CreateDirectUpload(ctx, s.corsOrigin)
	if err != nil {
		return DirectUpload{}, err
	}
	return DirectUpload{UploadID: up.ID, UploadURL: up.URL}, nil
}

type BackupTarget struct {
	Key     string
	URL     string
	Headers map[string]string
}

// CreateBackupTarget issues a one-time write destination in the backup
// blob store and returns the stable storage reference for it.
func (s *UploadService) CreateBackupTarget(ctx context.Context, ownerID, filename, contentType string, fileSize int64) (BackupTarget, error) {
	if ownerID == "" || filename == "" {
		return BackupTarget{}, vault_errors.ErrInvalidInput
	}
	key := s.backup.BuildObjectKey(ownerID, filename)
	url, headers, err := s.backup.PresignPut(ctx, key, contentType, fileSize)
	if err != nil {
		return BackupTarget{}, err
	}
	return BackupTarget{Key: key, URL: url, Headers: headers}, nil
}
