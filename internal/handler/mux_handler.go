package handler

import (
	"errors"
	"net/http"

	"mediavault/internal/domain/file"
	"mediavault/internal/services"
	"mediavault/internal/transport/httpdto"
	vault_errors "mediavault/pkg/errors"
	"mediavault/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MuxHandler serves the video pipeline endpoints. Provider error detail
// is logged server-side; clients only see generic messages.
type MuxHandler struct {
	uploads *services.UploadService
	status  *services.StatusService
	files   *services.FileService
	logger  *logger.Logger
}

func NewMuxHandler(uploads *services.UploadService, status *services.StatusService, files *services.FileService, l *logger.Logger) *MuxHandler {
	return &MuxHandler{uploads: uploads, status: status, files: files, logger: l}
}

// CreateDirectUpload handles POST /api/mux/direct-upload
func (h *MuxHandler) CreateDirectUpload(c *gin.Context) {
	var req httpdto.DirectUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" || req.FileSize <= 0 {
		c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "Filename and file size are required"})
		return
	}

	target, err := h.uploads.CreateDirectUpload(c.Request.Context(), req.Filename, req.FileSize)
	if err != nil {
		h.logger.Errorf("creating direct upload: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.ErrorBody{Error: "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, httpdto.DirectUploadResponse{
		UploadID:  target.UploadID,
		UploadURL: target.UploadURL,
		AssetID:   nil, // available after the upload completes
	})
}

// Status handles GET /api/mux/status
func (h *MuxHandler) Status(c *gin.Context) {
	uploadID := c.Query("uploadId")
	assetID := c.Query("assetId")

	if uploadID == "" && assetID == "" {
		c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "Either uploadId or assetId is required"})
		return
	}

	payload, err := h.status.Check(c.Request.Context(), uploadID, assetID)
	if err != nil {
		h.logger.Errorf("checking asset status: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.ErrorBody{Error: "Failed to check asset status"})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// UpdateFile handles POST /api/mux/update-file
func (h *MuxHandler) UpdateFile(c *gin.Context) {
	var req httpdto.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileID == "" {
		c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "File ID is required"})
		return
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "File ID is required"})
		return
	}

	if req.MuxStatus != "" {
		switch file.MuxStatus(req.MuxStatus) {
		case file.StatusPreparing, file.StatusReady, file.StatusErrored:
		default:
			c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "Invalid status"})
			return
		}
	}

	updated, err := h.files.ApplyMuxUpdate(c.Request.Context(), fileID, file.MuxUpdate{
		Status:     file.MuxStatus(req.MuxStatus),
		AssetID:    req.MuxAssetID,
		PlaybackID: req.MuxPlaybackID,
		Thumbnail:  req.MuxThumbnail,
	})
	if err != nil {
		switch {
		case errors.Is(err, vault_errors.ErrNotFound):
			c.JSON(http.StatusNotFound, httpdto.ErrorBody{Error: "File not found"})
		case errors.Is(err, vault_errors.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, httpdto.ErrorBody{Error: "Invalid status transition"})
		default:
			h.logger.Errorf("updating file %s: %s", req.FileID, err)
			c.JSON(http.StatusInternalServerError, httpdto.ErrorBody{Error: "Failed to update file"})
		}
		return
	}

	c.JSON(http.StatusOK, httpdto.UpdateFileResponse{Success: true, File: updated})
}
