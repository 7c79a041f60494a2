package repository

import (
	"context"
	"errors"
	"time"

	"mediavault/internal/domain/comment"
	vault_errors "mediavault/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PostgresCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (comment.Comment, error) {
	var c comment.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return comment.Comment{}, vault_errors.ErrNotFound
		}
		return comment.Comment{}, err
	}
	return c, nil
}

func (r *PostgresCommentRepository) ListByDocument(ctx context.Context, documentID string) ([]comment.Comment, error) {
	var comments []comment.Comment
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresCommentRepository) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error {
	res := r.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved":   resolved,
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

func (r *PostgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&comment.Comment{}, "id = ? OR parent_id = ?", id, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vault_errors.ErrNotFound
	}
	return nil
}
