package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServerAPI implements Backend against the mediavault HTTP API.
type ServerAPI struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewServerAPI(baseURL, token string) *ServerAPI {
	return &ServerAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *ServerAPI) CreateDirectUpload(ctx context.Context, filename string, fileSize int64) (DirectUpload, error) {
	var out struct {
		UploadID  string `json:"uploadId"`
		UploadURL string `json:"uploadUrl"`
	}
	err := a.post(ctx, "/api/mux/direct-upload", map[string]interface{}{
		"filename": filename,
		"fileSize": fileSize,
	}, &out)
	if err != nil {
		return DirectUpload{}, err
	}
	return DirectUpload{UploadID: out.UploadID, UploadURL: out.UploadURL}, nil
}

func (a *ServerAPI) CreateBackupTarget(ctx context.Context, filename, contentType string, fileSize int64) (BackupTarget, error) {
	var out struct {
		Key     string            `json:"key"`
		URL     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	}
	err := a.post(ctx, "/api/files/upload-url", map[string]interface{}{
		"filename":    filename,
		"contentType": contentType,
		"fileSize":    fileSize,
	}, &out)
	if err != nil {
		return BackupTarget{}, err
	}
	return BackupTarget{Key: out.Key, URL: out.URL, Headers: out.Headers}, nil
}

func (a *ServerAPI) CreateVideoFile(ctx context.Context, req CreateVideoFileRequest) (string, error) {
	var out struct {
		File struct {
			ID string `json:"id"`
		} `json:"file"`
	}
	if err := a.post(ctx, "/api/files/video", req, &out); err != nil {
		return "", err
	}
	return out.File.ID, nil
}

func (a *ServerAPI) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
