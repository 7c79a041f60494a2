package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mux.com"

// ImageBaseURL is the host thumbnails are served from.
const ImageBaseURL = "https://image.mux.com"

// Client is a thin client for the Mux Video REST API. It carries no retry
// logic; callers decide whether a failed request is worth retrying.
type Client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	http        *http.Client
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(tokenID, tokenSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateDirectUpload asks Mux for a single-use upload destination. The
// created asset gets a public playback policy and normalized audio, and
// the destination accepts cross-origin uploads only from corsOrigin.
func (c *Client) CreateDirectUpload(ctx context.Context, corsOrigin string) (Upload, error) {
	body := createUploadRequest{
		CORSOrigin: corsOrigin,
		NewAssetSettings: newAssetSettings{
			PlaybackPolicies: []string{"public"},
			NormalizeAudio:   true,
		},
	}

	var out uploadEnvelope
	if err := c.do(ctx, http.MethodPost, "/video/v1/uploads", body, &out); err != nil {
		return Upload{}, err
	}
	return out.Data, nil
}

// GetUpload retrieves the state of a direct upload, including the asset
// id once Mux has associated one.
func (c *Client) GetUpload(ctx context.Context, uploadID string) (Upload, error) {
	var out uploadEnvelope
	if err := c.do(ctx, http.MethodGet, "/video/v1/uploads/"+uploadID, nil, &out); err != nil {
		return Upload{}, err
	}
	return out.Data, nil
}

// GetAsset retrieves an asset's processing state and playback ids.
func (c *Client) GetAsset(ctx context.Context, assetID string) (Asset, error) {
	var out assetEnvelope
	if err := c.do(ctx, http.MethodGet, "/video/v1/assets/"+assetID, nil, &out); err != nil {
		return Asset{}, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && len(apiErr.Error.Messages) > 0 {
			return fmt.Errorf("mux: %s %s: %d: %s", method, path, resp.StatusCode, apiErr.Error.Messages[0])
		}
		return fmt.Errorf("mux: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
