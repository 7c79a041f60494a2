package services

import (
	"context"

	"mediavault/internal/domain/file"
	"mediavault/internal/redis"
	"mediavault/internal/repository"
	"mediavault/internal/storage"
	"mediavault/pkg/logger"

	vault_errors "mediavault/pkg/errors"

	"github.com/google/uuid"
)

type FileService struct {
	repo   repository.FileRepository
	backup *storage.Client
	cache  *redis.CacheStore
	logger *logger.Logger
}

func NewFileService(repo repository.FileRepository, backup *storage.Client, cache *redis.CacheStore, l *logger.Logger) *FileService {
	return &FileService{repo: repo, backup: backup, cache: cache, logger: l}
}

type CreateFileInput struct {
	Name       string
	Size       int64
	StorageKey string
	Owner      string
	AccountID  string
	Users      []string
}

// CreateFile registers a non-video file after its backup-store upload
// completed. Type and extension are derived from the filename.
func (s *FileService) CreateFile(ctx context.Context, input CreateFileInput) (file.File, error) {
	if input.Name == "" || input.StorageKey == "" || input.Owner == "" || input.Size <= 0 {
		return file.File{}, vault_errors.ErrInvalidInput
	}

	fileType, ext := file.TypeForName(input.Name)
	f := file.File{
		ID:         uuid.New(),
		Name:       input.Name,
		Type:       fileType,
		Extension:  ext,
		Size:       input.Size,
		URL:        s.backup.FileURL(input.StorageKey),
		StorageKey: input.StorageKey,
		Owner:      input.Owner,
		AccountID:  input.AccountID,
		Users:      input.Users,
	}
	if f.Users == nil {
		f.Users = []string{}
	}

	if err := s.repo.Create(ctx, &f); err != nil {
		return file.File{}, err
	}
	s.invalidateUsage(ctx, input.Owner)
	return f, nil
}

type CreateVideoFileInput struct {
	Name        string
	Size        int64
	StorageKey  string
	Owner       string
	AccountID   string
	Users       []string
	MuxUploadID string
	MuxAssetID  string
}

// CreateVideoFile is the single point of record creation for the video
// upload flow. The record starts in preparing; the reconciliation poller
// owns every later status change.
func (s *FileService) CreateVideoFile(ctx context.Context, input CreateVideoFileInput) (file.File, error) {
	if input.Name == "" || input.StorageKey == "" || input.Owner == "" || input.Size <= 0 || input.MuxUploadID == "" {
		return file.File{}, vault_errors.ErrInvalidInput
	}

	_, ext := file.TypeForName(input.Name)
	if ext == "" {
		ext = "mp4"
	}

	f := file.File{
		ID:          uuid.New(),
		Name:        input.Name,
		Type:        file.TypeVideo,
		Extension:   ext,
		Size:        input.Size,
		URL:         s.backup.FileURL(input.StorageKey),
		StorageKey:  input.StorageKey,
		Owner:       input.Owner,
		AccountID:   input.AccountID,
		Users:       input.Users,
		MuxUploadID: input.MuxUploadID,
		MuxAssetID:  input.MuxAssetID,
		MuxStatus:   file.StatusPreparing,
	}
	if f.Users == nil {
		f.Users = []string{}
	}

	if err := s.repo.Create(ctx, &f); err != nil {
		return file.File{}, err
	}
	s.invalidateUsage(ctx, input.Owner)
	return f, nil
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (file.File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FileService) GetUserFiles(ctx context.Context, userID, userEmail string, q file.ListQuery) ([]file.File, error) {
	return s.repo.ListAccessible(ctx, userID, userEmail, q)
}

func (s *FileService) Rename(ctx context.Context, userID string, id uuid.UUID, name string) error {
	if name == "" {
		return vault_errors.ErrInvalidInput
	}
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.Owner != userID {
		return vault_errors.ErrForbidden
	}
	return s.repo.Rename(ctx, id, name)
}

func (s *FileService) UpdateUsers(ctx context.Context, userID string, id uuid.UUID, users []string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.Owner != userID {
		return vault_errors.ErrForbidden
	}
	if users == nil {
		users = []string{}
	}
	return s.repo.UpdateUsers(ctx, id, users)
}

// Delete removes the record and releases its backup blob. The blob is
// deleted first so a failure leaves the record visible rather than
// orphaning the bytes.
func (s *FileService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.Owner != userID {
		return vault_errors.ErrForbidden
	}

	if f.StorageKey != "" {
		if err := s.backup.Delete(ctx, f.StorageKey); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateUsage(ctx, userID)
	return nil
}

// ApplyMuxUpdate forwards a poller patch to the repository, which
// enforces forward-only transitions and write-once identifiers.
func (s *FileService) ApplyMuxUpdate(ctx context.Context, id uuid.UUID, upd file.MuxUpdate) (file.File, error) {
	return s.repo.ApplyMuxUpdate(ctx, id, upd)
}

func (s *FileService) TotalSpace(ctx context.Context, userID string) (file.SpaceUsage, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUsage(ctx, userID); err == nil && cached != nil {
			return *cached, nil
		}
	}

	usage, err := s.repo.TotalSpace(ctx, userID)
	if err != nil {
		return file.SpaceUsage{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetUsage(ctx, userID, usage); err != nil && s.logger != nil {
			s.logger.Warnf("failed to cache usage for %s: %s", userID, err)
		}
	}
	return usage, nil
}

func (s *FileService) invalidateUsage(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUsage(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warnf("failed to invalidate usage cache for %s: %s", userID, err)
	}
}
