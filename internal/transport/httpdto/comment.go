package httpdto

import "encoding/json"

// CreateCommentRequest is used for POST /api/comments
type CreateCommentRequest struct {
	Content        string `json:"content" binding:"required"`
	AuthorName     string `json:"authorName" binding:"required"`
	AuthorAvatar   string `json:"authorAvatar"`
	AuthorInitials string `json:"authorInitials"`
	ParentID       string `json:"parentId"`
	DocumentID     string `json:"documentId"`
	DocumentSrc    string `json:"documentSrc"`
	// Annotation is stored as-is; the server never interprets it.
	Annotation json.RawMessage `json:"annotation"`
}

// ResolveCommentRequest is used for PATCH /api/comments/:id/resolve
type ResolveCommentRequest struct {
	Resolved bool `json:"resolved"`
}
