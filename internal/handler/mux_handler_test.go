package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediavault/internal/domain/file"
	"mediavault/internal/mux"
	"mediavault/internal/repository"
	"mediavault/internal/services"
	vault_errors "mediavault/pkg/errors"
	"mediavault/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMuxAPI struct {
	upload    mux.Upload
	uploadErr error
	asset     mux.Asset
	assetErr  error

	calls int
}

func (s *stubMuxAPI) CreateDirectUpload(ctx context.Context, corsOrigin string) (mux.Upload, error) {
	s.calls++
	return s.upload, s.uploadErr
}

func (s *stubMuxAPI) GetUpload(ctx context.Context, uploadID string) (mux.Upload, error) {
	s.calls++
	return s.upload, s.uploadErr
}

func (s *stubMuxAPI) GetAsset(ctx context.Context, assetID string) (mux.Asset, error) {
	s.calls++
	return s.asset, s.assetErr
}

type stubFileRepo struct {
	repository.FileRepository

	file     file.File
	applyErr error
	applied  *file.MuxUpdate
}

func (r *stubFileRepo) ApplyMuxUpdate(ctx context.Context, id uuid.UUID, upd file.MuxUpdate) (file.File, error) {
	if r.applyErr != nil {
		return file.File{}, r.applyErr
	}
	r.applied = &upd
	return r.file, nil
}

func newMuxRouter(api *stubMuxAPI, repo *stubFileRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	l := logger.New(logger.DevelopmentMode)

	uploads := services.NewUploadService(api, nil, "https://app.example.com")
	status := services.NewStatusService(api)
	files := services.NewFileService(repo, nil, nil, l)
	h := NewMuxHandler(uploads, status, files, l)

	r := gin.New()
	r.POST("/api/mux/direct-upload", h.CreateDirectUpload)
	r.GET("/api/mux/status", h.Status)
	r.POST("/api/mux/update-file", h.UpdateFile)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDirectUploadValidation(t *testing.T) {
	api := &stubMuxAPI{}
	r := newMuxRouter(api, &stubFileRepo{})

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty body", map[string]interface{}{}},
		{"missing filename", map[string]interface{}{"fileSize": 100}},
		{"missing size", map[string]interface{}{"filename": "clip.mp4"}},
		{"zero size", map[string]interface{}{"filename": "clip.mp4", "fileSize": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/mux/direct-upload", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Filename and file size are required"}`, w.Body.String())
		})
	}
	assert.Zero(t, api.calls)
}

func TestCreateDirectUploadSuccess(t *testing.T) {
	api := &stubMuxAPI{
		upload: mux.Upload{ID: "up_1", URL: "https://storage.mux.com/put/abc"},
	}
	r := newMuxRouter(api, &stubFileRepo{})

	w := doJSON(t, r, http.MethodPost, "/api/mux/direct-upload", map[string]interface{}{
		"filename": "clip.mp4",
		"fileSize": 1024,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "up_1", resp["uploadId"])
	assert.Equal(t, "https://storage.mux.com/put/abc", resp["uploadUrl"])

	// assetId is present and null until the provider creates the asset.
	v, present := resp["assetId"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestCreateDirectUploadProviderError(t *testing.T) {
	api := &stubMuxAPI{uploadErr: errors.New("upstream down")}
	r := newMuxRouter(api, &stubFileRepo{})

	w := doJSON(t, r, http.MethodPost, "/api/mux/direct-upload", map[string]interface{}{
		"filename": "clip.mp4",
		"fileSize": 1024,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create upload URL"}`, w.Body.String())
}

func TestStatusRequiresIdentifier(t *testing.T) {
	api := &stubMuxAPI{}
	r := newMuxRouter(api, &stubFileRepo{})

	w := doJSON(t, r, http.MethodGet, "/api/mux/status", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Either uploadId or assetId is required"}`, w.Body.String())
	// The provider is never contacted for an invalid request.
	assert.Zero(t, api.calls)
}

func TestStatusByUploadID(t *testing.T) {
	api := &stubMuxAPI{
		upload: mux.Upload{ID: "up_1", Status: "asset_created", AssetID: "asset_1"},
		asset: mux.Asset{
			ID:          "asset_1",
			Status:      "ready",
			PlaybackIDs: []mux.PlaybackID{{ID: "pb_1"}},
		},
	}
	r := newMuxRouter(api, &stubFileRepo{})

	w := doJSON(t, r, http.MethodGet, "/api/mux/status?uploadId=up_1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload services.StatusPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotNil(t, payload.Upload)
	assert.Equal(t, "asset_1", payload.Upload.AssetID)
	require.NotNil(t, payload.Asset)
	assert.Equal(t, services.ThumbnailURL("pb_1"), payload.Asset.Thumbnail)
}

func TestStatusProviderError(t *testing.T) {
	api := &stubMuxAPI{assetErr: errors.New("timeout")}
	r := newMuxRouter(api, &stubFileRepo{})

	w := doJSON(t, r, http.MethodGet, "/api/mux/status?assetId=asset_1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to check asset status"}`, w.Body.String())
}

func TestUpdateFileValidation(t *testing.T) {
	r := newMuxRouter(&stubMuxAPI{}, &stubFileRepo{})

	w := doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"File ID is required"}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{
		"fileId": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{
		"fileId":    uuid.New().String(),
		"muxStatus": "transcoding",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid status"}`, w.Body.String())
}

func TestUpdateFileSuccess(t *testing.T) {
	id := uuid.New()
	repo := &stubFileRepo{
		file: file.File{ID: id, Name: "clip.mp4", Type: file.TypeVideo, MuxStatus: file.StatusReady},
	}
	r := newMuxRouter(&stubMuxAPI{}, repo)

	w := doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{
		"fileId":        id.String(),
		"muxStatus":     "ready",
		"muxAssetId":    "asset_1",
		"muxPlaybackId": "pb_1",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool      `json:"success"`
		File    file.File `json:"file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, id, resp.File.ID)

	require.NotNil(t, repo.applied)
	assert.Equal(t, file.StatusReady, repo.applied.Status)
	assert.Equal(t, "asset_1", repo.applied.AssetID)
}

func TestUpdateFileNotFound(t *testing.T) {
	repo := &stubFileRepo{applyErr: vault_errors.ErrNotFound}
	r := newMuxRouter(&stubMuxAPI{}, repo)

	w := doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{
		"fileId":    uuid.New().String(),
		"muxStatus": "ready",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"File not found"}`, w.Body.String())
}

func TestUpdateFileInvalidTransition(t *testing.T) {
	repo := &stubFileRepo{applyErr: vault_errors.ErrInvalidTransition}
	r := newMuxRouter(&stubMuxAPI{}, repo)

	w := doJSON(t, r, http.MethodPost, "/api/mux/update-file", map[string]interface{}{
		"fileId":    uuid.New().String(),
		"muxStatus": "preparing",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid status transition"}`, w.Body.String())
}
