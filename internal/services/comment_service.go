package services

import (
	"context"
	"encoding/json"

	"mediavault/internal/domain/comment"
	"mediavault/internal/repository"
	vault_errors "mediavault/pkg/errors"

	"github.com/google/uuid"
)

type CommentService struct {
	repo repository.CommentRepository
}

func NewCommentService(repo repository.CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

type CreateCommentInput struct {
	Content        string
	AuthorName     string
	AuthorAvatar   string
	AuthorInitials string
	ParentID       *uuid.UUID
	DocumentID     string
	DocumentSrc    string
	// Annotation is passed through unexamined as an opaque blob.
	Annotation json.RawMessage
}

func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (comment.Comment, error) {
	if input.Content == "" || input.AuthorName == "" {
		return comment.Comment{}, vault_errors.ErrInvalidInput
	}

	if input.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return comment.Comment{}, err
		}
		// Replies stay one level deep; a reply to a reply attaches to
		// the top-level comment.
		if parent.ParentID != nil {
			input.ParentID = parent.ParentID
		}
	}

	c := comment.Comment{
		ID:             uuid.New(),
		Content:        input.Content,
		AuthorName:     input.AuthorName,
		AuthorAvatar:   input.AuthorAvatar,
		AuthorInitials: input.AuthorInitials,
		ParentID:       input.ParentID,
		DocumentID:     input.DocumentID,
		DocumentSrc:    input.DocumentSrc,
		Annotation:     input.Annotation,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return comment.Comment{}, err
	}
	return c, nil
}

func (s *CommentService) ListByDocument(ctx context.Context, documentID string) ([]comment.Comment, error) {
	if documentID == "" {
		return nil, vault_errors.ErrInvalidInput
	}
	return s.repo.ListByDocument(ctx, documentID)
}

func (s *CommentService) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error {
	return s.repo.SetResolved(ctx, id, resolved)
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
