package handler

import (
	"errors"
	"net/http"

	"mediavault/internal/services"
	"mediavault/internal/transport/httpdto"
	vault_errors "mediavault/pkg/errors"
	"mediavault/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	comments *services.CommentService
	logger   *logger.Logger
}

func NewCommentHandler(comments *services.CommentService, l *logger.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: l}
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req httpdto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	input := services.CreateCommentInput{
		Content:        req.Content,
		AuthorName:     req.AuthorName,
		AuthorAvatar:   req.AuthorAvatar,
		AuthorInitials: req.AuthorInitials,
		DocumentID:     req.DocumentID,
		DocumentSrc:    req.DocumentSrc,
		Annotation:     req.Annotation,
	}
	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid parent id", "INVALID_REQUEST"))
			return
		}
		input.ParentID = &parentID
	}

	created, err := h.comments.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "creating comment")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(created))
}

// List handles GET /api/comments?documentId=
func (h *CommentHandler) List(c *gin.Context) {
	documentID := c.Query("documentId")
	if documentID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("documentId is required", "INVALID_REQUEST"))
		return
	}

	comments, err := h.comments.ListByDocument(c.Request.Context(), documentID)
	if err != nil {
		h.respondError(c, err, "listing comments")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"comments": comments}))
}

// Resolve handles PATCH /api/comments/:id/resolve
func (h *CommentHandler) Resolve(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid comment id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.ResolveCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.comments.SetResolved(c.Request.Context(), commentID, req.Resolved); err != nil {
		h.respondError(c, err, "resolving comment")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Delete handles DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid comment id", "INVALID_REQUEST"))
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID); err != nil {
		h.respondError(c, err, "deleting comment")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *CommentHandler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, vault_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
	case errors.Is(err, vault_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	default:
		h.logger.Errorf("%s: %s", action, err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
