package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	vault_errors "mediavault/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	directUpload func(ctx context.Context, filename string, fileSize int64) (DirectUpload, error)
	backupTarget func(ctx context.Context, filename, contentType string, fileSize int64) (BackupTarget, error)
	videoFile    func(ctx context.Context, req CreateVideoFileRequest) (string, error)
}

func (b *fakeBackend) CreateDirectUpload(ctx context.Context, filename string, fileSize int64) (DirectUpload, error) {
	return b.directUpload(ctx, filename, fileSize)
}

func (b *fakeBackend) CreateBackupTarget(ctx context.Context, filename, contentType string, fileSize int64) (BackupTarget, error) {
	return b.backupTarget(ctx, filename, contentType, fileSize)
}

func (b *fakeBackend) CreateVideoFile(ctx context.Context, req CreateVideoFileRequest) (string, error) {
	return b.videoFile(ctx, req)
}

func writeTempVideo(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := bytes.Repeat([]byte{0xAB}, size)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestSelectFileRejectsNonVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	s := NewSession(&fakeBackend{})
	err := s.SelectFile(path)
	assert.ErrorIs(t, err, vault_errors.ErrUnsupportedType)
	assert.False(t, s.Selected())
}

func TestSelectFileRejectsDirectory(t *testing.T) {
	s := NewSession(&fakeBackend{})
	err := s.SelectFile(t.TempDir())
	assert.ErrorIs(t, err, vault_errors.ErrInvalidInput)
}

func TestSelectFileMissingFile(t *testing.T) {
	s := NewSession(&fakeBackend{})
	err := s.SelectFile(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}

func TestSelectFileAcceptsVideoWithoutNetwork(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 1024)

	s := NewSession(&fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			t.Fatal("selection must not touch the backend")
			return DirectUpload{}, nil
		},
	})

	require.NoError(t, s.SelectFile(path))
	assert.True(t, s.Selected())
	assert.Zero(t, s.Progress())
}

func TestSelectFileRejectsOversizedVideo(t *testing.T) {
	// A sparse file keeps the test cheap while crossing the size cap.
	path := filepath.Join(t.TempDir(), "huge.mp4")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxFileSize+1))
	require.NoError(t, f.Close())

	s := NewSession(&fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			t.Fatal("selection must not touch the backend")
			return DirectUpload{}, nil
		},
	})

	err = s.SelectFile(path)
	assert.ErrorIs(t, err, vault_errors.ErrTooLarge)
	assert.False(t, s.Selected())
}

func TestStartWithoutSelection(t *testing.T) {
	s := NewSession(&fakeBackend{})
	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, vault_errors.ErrNoFileSelected)
}

func TestStartFullFlow(t *testing.T) {
	const fileSize = 2500
	path := writeTempVideo(t, "clip.mp4", fileSize)

	var mu sync.Mutex
	var videoRanges []string
	var videoBytes int
	videoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		videoRanges = append(videoRanges, r.Header.Get("Content-Range"))
		videoBytes += len(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer videoSrv.Close()

	var backupBytes int
	backupSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		backupBytes = len(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer backupSrv.Close()

	var recordReq CreateVideoFileRequest
	backend := &fakeBackend{
		directUpload: func(_ context.Context, filename string, size int64) (DirectUpload, error) {
			assert.Equal(t, "clip.mp4", filename)
			assert.EqualValues(t, fileSize, size)
			return DirectUpload{UploadID: "up_1", UploadURL: videoSrv.URL}, nil
		},
		backupTarget: func(_ context.Context, filename, contentType string, size int64) (BackupTarget, error) {
			assert.Equal(t, "video/mp4", contentType)
			return BackupTarget{Key: "files/u/abc.mp4", URL: backupSrv.URL}, nil
		},
		videoFile: func(_ context.Context, req CreateVideoFileRequest) (string, error) {
			recordReq = req
			return "file-123", nil
		},
	}

	var progress []int
	var completedID string
	s := NewSession(backend,
		WithChunkSize(1000),
		WithProgress(func(p int) { progress = append(progress, p) }),
		WithCompletion(func(id string) { completedID = id }),
	)

	require.NoError(t, s.SelectFile(path))
	fileID, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-123", fileID)
	assert.Equal(t, "file-123", completedID)

	// Three chunks: 1000 + 1000 + 500.
	assert.Equal(t, []string{
		fmt.Sprintf("bytes 0-999/%d", fileSize),
		fmt.Sprintf("bytes 1000-1999/%d", fileSize),
		fmt.Sprintf("bytes 2000-2499/%d", fileSize),
	}, videoRanges)
	assert.Equal(t, fileSize, videoBytes)
	assert.Equal(t, fileSize, backupBytes)

	assert.Equal(t, "clip.mp4", recordReq.Name)
	assert.EqualValues(t, fileSize, recordReq.Size)
	assert.Equal(t, "files/u/abc.mp4", recordReq.StorageKey)
	assert.Equal(t, "up_1", recordReq.MuxUploadID)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}

	// A successful upload clears the selection.
	assert.False(t, s.Selected())
}

func TestStartUploadURLError(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	backend := &fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			return DirectUpload{}, errors.New("broker unavailable")
		},
	}

	s := NewSession(backend)
	require.NoError(t, s.SelectFile(path))

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrUploadURL)
}

func TestStartTransferErrorIsRetryable(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 400 is terminal; no retry happens.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	backend := &fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			return DirectUpload{UploadID: "up_1", UploadURL: srv.URL}, nil
		},
		backupTarget: func(context.Context, string, string, int64) (BackupTarget, error) {
			return BackupTarget{Key: "k", URL: srv.URL}, nil
		},
	}

	s := NewSession(backend)
	require.NoError(t, s.SelectFile(path))

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrTransfer)

	// The selection survives a failed transfer so Start can be retried.
	assert.True(t, s.Selected())
	assert.Zero(t, s.Progress())
}

func TestStartBackupError(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer okSrv.Close()

	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer failSrv.Close()

	backend := &fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			return DirectUpload{UploadID: "up_1", UploadURL: okSrv.URL}, nil
		},
		backupTarget: func(context.Context, string, string, int64) (BackupTarget, error) {
			return BackupTarget{Key: "k", URL: failSrv.URL}, nil
		},
	}

	s := NewSession(backend)
	require.NoError(t, s.SelectFile(path))

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrBackup)
}

func TestStartRecordCreationError(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	backend := &fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			return DirectUpload{UploadID: "up_1", UploadURL: srv.URL}, nil
		},
		backupTarget: func(context.Context, string, string, int64) (BackupTarget, error) {
			return BackupTarget{Key: "k", URL: srv.URL}, nil
		},
		videoFile: func(context.Context, CreateVideoFileRequest) (string, error) {
			return "", errors.New("db down")
		},
	}

	s := NewSession(backend)
	require.NoError(t, s.SelectFile(path))

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrBackup)
}

func TestTransferRetriesServerErrors(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var recorded bool
	backend := &fakeBackend{
		directUpload: func(context.Context, string, int64) (DirectUpload, error) {
			return DirectUpload{UploadID: "up_1", UploadURL: srv.URL}, nil
		},
		backupTarget: func(context.Context, string, string, int64) (BackupTarget, error) {
			return BackupTarget{Key: "k", URL: srv.URL}, nil
		},
		videoFile: func(context.Context, CreateVideoFileRequest) (string, error) {
			recorded = true
			return "file-1", nil
		},
	}

	s := NewSession(backend)
	require.NoError(t, s.SelectFile(path))

	_, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, recorded)
	mu.Lock()
	assert.GreaterOrEqual(t, attempts, 2)
	mu.Unlock()
}

func TestCancelDiscardsLocalState(t *testing.T) {
	path := writeTempVideo(t, "clip.mp4", 100)

	s := NewSession(&fakeBackend{})
	require.NoError(t, s.SelectFile(path))
	require.True(t, s.Selected())

	s.Cancel()
	assert.False(t, s.Selected())
	assert.Zero(t, s.Progress())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(0, 100))
	assert.Equal(t, 50, percent(50, 100))
	assert.Equal(t, 100, percent(100, 100))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 0, percent(10, 0))
}
