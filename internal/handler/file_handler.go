package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mediavault/internal/domain/file"
	"mediavault/internal/services"
	"mediavault/internal/transport/httpdto"
	vault_errors "mediavault/pkg/errors"
	"mediavault/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FileHandler struct {
	files   *services.FileService
	uploads *services.UploadService
	logger  *logger.Logger
}

func NewFileHandler(files *services.FileService, uploads *services.UploadService, l *logger.Logger) *FileHandler {
	return &FileHandler{files: files, uploads: uploads, logger: l}
}

// CreateUploadURL handles POST /api/files/upload-url
func (h *FileHandler) CreateUploadURL(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var req httpdto.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	target, err := h.uploads.CreateBackupTarget(c.Request.Context(), identity.UserID, req.Filename, req.ContentType, req.FileSize)
	if err != nil {
		h.logger.Errorf("creating backup target: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to create upload URL", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.UploadURLResponse{Key: target.Key, URL: target.URL, Headers: target.Headers})
}

// Create handles POST /api/files
func (h *FileHandler) Create(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var req httpdto.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	created, err := h.files.CreateFile(c.Request.Context(), services.CreateFileInput{
		Name:       req.Name,
		Size:       req.Size,
		StorageKey: req.StorageKey,
		Owner:      identity.UserID,
		AccountID:  identity.AccountID,
		Users:      req.Users,
	})
	if err != nil {
		h.respondError(c, err, "creating file record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": created})
}

// CreateVideo handles POST /api/files/video
func (h *FileHandler) CreateVideo(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var req httpdto.CreateVideoFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	created, err := h.files.CreateVideoFile(c.Request.Context(), services.CreateVideoFileInput{
		Name:        req.Name,
		Size:        req.Size,
		StorageKey:  req.StorageKey,
		Owner:       identity.UserID,
		AccountID:   identity.AccountID,
		Users:       req.Users,
		MuxUploadID: req.MuxUploadID,
		MuxAssetID:  req.MuxAssetID,
	})
	if err != nil {
		h.respondError(c, err, "creating video file record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": created})
}

// List handles GET /api/files
func (h *FileHandler) List(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	q := file.ListQuery{
		SearchText: c.Query("searchText"),
		Sort:       c.Query("sort"),
	}
	if types := c.Query("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			q.Types = append(q.Types, file.Type(strings.TrimSpace(t)))
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	files, err := h.files.GetUserFiles(c.Request.Context(), identity.UserID, identity.Email, q)
	if err != nil {
		h.respondError(c, err, "listing files")
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files, "total": len(files)})
}

// Rename handles PATCH /api/files/:id/rename
func (h *FileHandler) Rename(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid file id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.files.Rename(c.Request.Context(), identity.UserID, fileID, req.Name); err != nil {
		h.respondError(c, err, "renaming file")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// UpdateUsers handles PATCH /api/files/:id/users
func (h *FileHandler) UpdateUsers(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid file id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.UpdateFileUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.files.UpdateUsers(c.Request.Context(), identity.UserID, fileID, req.Users); err != nil {
		h.respondError(c, err, "updating file users")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Delete handles DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid file id", "INVALID_REQUEST"))
		return
	}

	if err := h.files.Delete(c.Request.Context(), identity.UserID, fileID); err != nil {
		h.respondError(c, err, "deleting file")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Usage handles GET /api/files/usage
func (h *FileHandler) Usage(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	usage, err := h.files.TotalSpace(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err, "computing storage usage")
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(usage))
}

func (h *FileHandler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, vault_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
	case errors.Is(err, vault_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, vault_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	default:
		h.logger.Errorf("%s: %s", action, err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
