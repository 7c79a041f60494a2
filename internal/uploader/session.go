package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	vault_errors "mediavault/pkg/errors"

	"github.com/sethvargo/go-retry"
)

const (
	// MaxFileSize is the fixed ceiling for a single video upload.
	MaxFileSize = 5 * 1024 * 1024 * 1024 // 5 GiB

	// DefaultChunkSize is the nominal transfer chunk size.
	DefaultChunkSize = 30 * 1024 * 1024 // 30 MiB
)

func init() {
	// The OS mime table does not reliably cover video extensions.
	for ext, typ := range map[string]string{
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".avi":  "video/x-msvideo",
		".mkv":  "video/x-matroska",
		".webm": "video/webm",
	} {
		mime.AddExtensionType(ext, typ)
	}
}

// Step-distinct upload errors, matched by callers with errors.Is.
var (
	ErrUploadURL = errors.New("failed to create upload URL")
	ErrTransfer  = errors.New("failed to upload video")
	ErrBackup    = errors.New("failed to save file information")
)

// Backend is the server-side API the session drives: the direct-upload
// broker, the backup storage writer and the file record store.
type Backend interface {
	CreateDirectUpload(ctx context.Context, filename string, fileSize int64) (DirectUpload, error)
	CreateBackupTarget(ctx context.Context, filename, contentType string, fileSize int64) (BackupTarget, error)
	CreateVideoFile(ctx context.Context, req CreateVideoFileRequest) (string, error)
}

type DirectUpload struct {
	UploadID  string
	UploadURL string
}

type BackupTarget struct {
	Key     string
	URL     string
	Headers map[string]string
}

type CreateVideoFileRequest struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storageKey"`
	MuxUploadID string `json:"muxUploadId"`
}

// Session drives one file from selection to a fully registered file
// record. It is ephemeral: nothing survives a process restart, and a
// failed attempt leaves the session in a retryable pre-upload state.
type Session struct {
	backend   Backend
	http      *http.Client
	chunkSize int64

	onProgress func(percent int)
	onComplete func(fileID string)

	mu        sync.Mutex
	filePath  string
	fileName  string
	fileSize  int64
	mimeType  string
	uploadID  string
	progress  int
	uploading bool
	cancel    context.CancelFunc
}

type Option func(*Session)

func WithChunkSize(size int64) Option {
	return func(s *Session) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(s *Session) { s.http = h }
}

// WithProgress registers a callback for progress updates. Percentages
// are integers, monotonically non-decreasing within one attempt.
func WithProgress(fn func(percent int)) Option {
	return func(s *Session) { s.onProgress = fn }
}

// WithCompletion registers a callback invoked with the new file id.
func WithCompletion(fn func(fileID string)) Option {
	return func(s *Session) { s.onComplete = fn }
}

func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:   backend,
		http:      &http.Client{Timeout: 10 * time.Minute},
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectFile validates and stages a file for upload. Only video MIME
// types up to the size ceiling are accepted; no network call is made.
func (s *Session) SelectFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploading {
		return vault_errors.ErrUploadInFlight
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return vault_errors.ErrInvalidInput
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "video/") {
		return vault_errors.ErrUnsupportedType
	}
	if info.Size() > MaxFileSize {
		return vault_errors.ErrTooLarge
	}

	s.filePath = path
	s.fileName = filepath.Base(path)
	s.fileSize = info.Size()
	s.mimeType = mimeType
	s.uploadID = ""
	s.progress = 0
	return nil
}

// Progress returns the last reported upload percentage.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Selected reports whether a file is staged for upload.
func (s *Session) Selected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filePath != ""
}

// Cancel discards the session's local state. An already-issued provider
// upload destination is not cleaned up; it expires server-side.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.filePath = ""
	s.fileName = ""
	s.fileSize = 0
	s.mimeType = ""
	s.uploadID = ""
	s.progress = 0
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Start runs the full upload: direct-upload target, backup target,
// chunked video transfer, backup write, then record creation. It
// returns the new file record id. There is no cross-backend
// transaction; consistency comes from this ordering plus the poller's
// later reconciliation. A transfer failure leaves the selected file in
// place so Start can be called again.
func (s *Session) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.filePath == "" {
		s.mu.Unlock()
		return "", vault_errors.ErrNoFileSelected
	}
	if s.uploading {
		s.mu.Unlock()
		return "", vault_errors.ErrUploadInFlight
	}
	s.uploading = true
	s.progress = 0
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	path, name, size, mimeType := s.filePath, s.fileName, s.fileSize, s.mimeType
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	// Step 1: provider-side upload destination.
	target, err := s.backend.CreateDirectUpload(runCtx, name, size)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadURL, err)
	}
	s.mu.Lock()
	s.uploadID = target.UploadID
	s.mu.Unlock()

	// Step 2: backup destination. Independent of step 1, but both must
	// exist before any bytes move.
	backup, err := s.backend.CreateBackupTarget(runCtx, name, mimeType, size)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadURL, err)
	}

	// Step 3: chunked transfer to the provider.
	if err := s.transferChunks(runCtx, path, size, target.UploadURL); err != nil {
		s.setProgress(0, true)
		return "", fmt.Errorf("%w: %s", ErrTransfer, err)
	}

	// Step 4: durability copy. The video-side upload already succeeded,
	// so a failure here is a known partial-failure state with manual
	// recovery; no compensation is attempted.
	if err := s.writeBackup(runCtx, path, size, mimeType, backup); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackup, err)
	}

	// Step 5: single point of record creation.
	fileID, err := s.backend.CreateVideoFile(runCtx, CreateVideoFileRequest{
		Name:        name,
		Size:        size,
		StorageKey:  backup.Key,
		MuxUploadID: target.UploadID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackup, err)
	}

	s.mu.Lock()
	s.filePath = ""
	s.fileName = ""
	s.fileSize = 0
	s.mimeType = ""
	s.mu.Unlock()

	if s.onComplete != nil {
		s.onComplete(fileID)
	}
	return fileID, nil
}

// transferChunks streams the file in fixed-size chunks, reporting
// acknowledged progress after each chunk. Chunks are retried with
// exponential backoff on transient failures.
func (s *Session) transferChunks(ctx context.Context, path string, size int64, uploadURL string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var sent int64
	for sent < size {
		chunkLen := s.chunkSize
		if remaining := size - sent; remaining < chunkLen {
			chunkLen = remaining
		}
		offset := sent

		backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			return s.putChunk(ctx, f, uploadURL, offset, chunkLen, size)
		})
		if err != nil {
			return err
		}

		sent += chunkLen
		s.setProgress(percent(sent, size), false)
	}
	return nil
}

func (s *Session) putChunk(ctx context.Context, f *os.File, uploadURL string, offset, length, total int64) error {
	reader := io.NewSectionReader(f, offset, length)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, reader)
	if err != nil {
		return err
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, offset+length-1, total))

	resp, err := s.http.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusPermanentRedirect:
		// 308: chunk accepted, upload incomplete.
		return nil
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("chunk upload: status %d", resp.StatusCode))
	default:
		return fmt.Errorf("chunk upload: status %d", resp.StatusCode)
	}
}

func (s *Session) writeBackup(ctx context.Context, path string, size int64, mimeType string, target BackupTarget) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, f)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", mimeType)
	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backup upload: status %d", resp.StatusCode)
	}
	return nil
}

// setProgress updates the reported percentage. Progress never moves
// backwards within an attempt; reset is used when an attempt aborts.
func (s *Session) setProgress(p int, reset bool) {
	s.mu.Lock()
	if !reset && p < s.progress {
		p = s.progress
	}
	s.progress = p
	fn := s.onProgress
	s.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

func percent(done, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
