package services

import (
	"context"
	"testing"

	"mediavault/internal/domain/comment"
	vault_errors "mediavault/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommentRepo struct {
	comments map[uuid.UUID]comment.Comment
	created  []comment.Comment
}

func newFakeCommentRepo(existing ...comment.Comment) *fakeCommentRepo {
	r := &fakeCommentRepo{comments: make(map[uuid.UUID]comment.Comment)}
	for _, c := range existing {
		r.comments[c.ID] = c
	}
	return r
}

func (r *fakeCommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	r.comments[c.ID] = *c
	r.created = append(r.created, *c)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (comment.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return comment.Comment{}, vault_errors.ErrNotFound
	}
	return c, nil
}

func (r *fakeCommentRepo) ListByDocument(ctx context.Context, documentID string) ([]comment.Comment, error) {
	var out []comment.Comment
	for _, c := range r.comments {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error {
	c, ok := r.comments[id]
	if !ok {
		return vault_errors.ErrNotFound
	}
	c.Resolved = resolved
	r.comments[id] = c
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.comments, id)
	return nil
}

func TestCreateCommentValidation(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo())

	_, err := svc.Create(context.Background(), CreateCommentInput{AuthorName: "A"})
	assert.ErrorIs(t, err, vault_errors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateCommentInput{Content: "hi"})
	assert.ErrorIs(t, err, vault_errors.ErrInvalidInput)
}

func TestCreateCommentFlattensNestedReplies(t *testing.T) {
	top := comment.Comment{ID: uuid.New(), Content: "top", AuthorName: "A", DocumentID: "doc-1"}
	reply := comment.Comment{ID: uuid.New(), Content: "reply", AuthorName: "B", ParentID: &top.ID, DocumentID: "doc-1"}
	repo := newFakeCommentRepo(top, reply)
	svc := NewCommentService(repo)

	created, err := svc.Create(context.Background(), CreateCommentInput{
		Content:    "reply to reply",
		AuthorName: "C",
		ParentID:   &reply.ID,
		DocumentID: "doc-1",
	})
	require.NoError(t, err)

	// The reply attaches to the top-level comment, not the reply.
	require.NotNil(t, created.ParentID)
	assert.Equal(t, top.ID, *created.ParentID)
}

func TestCreateCommentUnknownParent(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo())

	missing := uuid.New()
	_, err := svc.Create(context.Background(), CreateCommentInput{
		Content:    "orphan",
		AuthorName: "A",
		ParentID:   &missing,
	})
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
}

func TestListByDocumentRequiresID(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo())

	_, err := svc.ListByDocument(context.Background(), "")
	assert.ErrorIs(t, err, vault_errors.ErrInvalidInput)
}

func TestSetResolved(t *testing.T) {
	c := comment.Comment{ID: uuid.New(), Content: "top", AuthorName: "A"}
	repo := newFakeCommentRepo(c)
	svc := NewCommentService(repo)

	require.NoError(t, svc.SetResolved(context.Background(), c.ID, true))
	got, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
}
