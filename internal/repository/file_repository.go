package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediavault/internal/domain/file"
	vault_errors "mediavault/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresFileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &PostgresFileRepository{db: db}
}

func (r *PostgresFileRepository) Create(ctx context.Context, f *file.File) error {
	res := r.db.WithContext(ctx).Create(f)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return vault_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresFileRepository) GetByID(ctx context.Context, id uuid.UUID) (file.File, error) {
	var f file.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return file.File{}, vault_errors.ErrNotFound
		}
		return file.File{}, err
	}
	return f, nil
}

func (r *PostgresFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&file.File{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vault_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresFileRepository) ListAccessible(ctx context.Context, userID, userEmail string, q file.ListQuery) ([]file.File, error) {
	tx := r.db.WithContext(ctx).
		Where("owner = ? OR users @> ?", userID, fmt.Sprintf("[%q]", userEmail))

	if len(q.Types) > 0 {
		tx = tx.Where("type IN ?", q.Types)
	}
	if q.SearchText != "" {
		tx = tx.Where("name ILIKE ?", "%"+q.SearchText+"%")
	}

	tx = tx.Order(orderClause(q.Sort))
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var files []file.File
	if err := tx.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresFileRepository) ListPendingVideos(ctx context.Context, userID string) ([]file.File, error) {
	var files []file.File
	err := r.db.WithContext(ctx).
		Where("owner = ? AND type = ? AND mux_status = ?", userID, file.TypeVideo, file.StatusPreparing).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresFileRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).
		Model(&file.File{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vault_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresFileRepository) UpdateUsers(ctx context.Context, id uuid.UUID, users []string) error {
	res := r.db.WithContext(ctx).
		Model(&file.File{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"users":      jsonArray(users),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vault_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresFileRepository) ApplyMuxUpdate(ctx context.Context, id uuid.UUID, upd file.MuxUpdate) (file.File, error) {
	var updated file.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f file.File
		if err := tx.Where("id = ?", id).First(&f).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return vault_errors.ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if upd.Status != "" && upd.Status != f.MuxStatus {
			if !f.MuxStatus.CanTransition(upd.Status) {
				return vault_errors.ErrInvalidTransition
			}
			updates["mux_status"] = upd.Status
		}
		// Asset and playback ids are write-once.
		if upd.AssetID != "" && f.MuxAssetID == "" {
			updates["mux_asset_id"] = upd.AssetID
		}
		if upd.PlaybackID != "" && f.MuxPlaybackID == "" {
			updates["mux_playback_id"] = upd.PlaybackID
		}
		if upd.Thumbnail != "" && f.MuxThumbnail == "" {
			updates["mux_thumbnail"] = upd.Thumbnail
		}

		if len(updates) == 0 {
			updated = f
			return nil
		}
		updates["updated_at"] = time.Now()

		if err := tx.Model(&file.File{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return file.File{}, err
	}
	return updated, nil
}

func (r *PostgresFileRepository) TotalSpace(ctx context.Context, userID string) (file.SpaceUsage, error) {
	type row struct {
		Type   file.Type
		Size   int64
		Latest time.Time
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&file.File{}).
		Select("type, COALESCE(SUM(size), 0) AS size, MAX(created_at) AS latest").
		Where("owner = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return file.SpaceUsage{}, err
	}

	usage := file.SpaceUsage{
		ByType: map[file.Type]file.TypeUsage{
			file.TypeDocument: {},
			file.TypeImage:    {},
			file.TypeVideo:    {},
			file.TypeAudio:    {},
			file.TypeOther:    {},
		},
		All: 2 * 1024 * 1024 * 1024,
	}
	for _, rw := range rows {
		usage.ByType[rw.Type] = file.TypeUsage{Size: rw.Size, LatestDate: rw.Latest}
		usage.Used += rw.Size
	}
	return usage, nil
}

func orderClause(sort string) string {
	column := "created_at"
	direction := "DESC"
	if sort != "" {
		parts := strings.SplitN(sort, "-", 2)
		switch parts[0] {
		case "name":
			column = "name"
		case "size":
			column = "size"
		case "createdAt", "created_at":
			column = "created_at"
		}
		if len(parts) == 2 && strings.EqualFold(parts[1], "asc") {
			direction = "ASC"
		}
	}
	return column + " " + direction
}

func jsonArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
