package poller

import (
	"context"
	"sync"
	"time"

	"mediavault/internal/domain/file"
	"mediavault/internal/services"
	"mediavault/pkg/logger"

	"github.com/google/uuid"
)

// FileSource is the slice of the file store the poller needs.
type FileSource interface {
	ListPendingVideos(ctx context.Context, userID string) ([]file.File, error)
	ApplyMuxUpdate(ctx context.Context, id uuid.UUID, upd file.MuxUpdate) (file.File, error)
}

// StatusChecker resolves external identifiers into a status payload.
type StatusChecker interface {
	Check(ctx context.Context, uploadID, assetID string) (services.StatusPayload, error)
}

// TransitionFunc is invoked exactly once per record when its asset
// reaches a terminal state, ready or errored.
type TransitionFunc func(fileID string, asset services.AssetStatus)

// Poller reconciles pending video records against the provider. Each
// tick it queries the records still in preparing, checks their current
// provider status, and patches the record when the status moved. Records
// that reach a terminal state drop out of the next tick's query set, so
// the transition callback cannot re-fire for them.
type Poller struct {
	files      FileSource
	status     StatusChecker
	owner      string
	interval   time.Duration
	onTerminal TransitionFunc
	logger     *logger.Logger

	mu      sync.Mutex
	ticking bool
}

func New(files FileSource, status StatusChecker, owner string, interval time.Duration, onTerminal TransitionFunc, l *logger.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		files:      files,
		status:     status,
		owner:      owner,
		interval:   interval,
		onTerminal: onTerminal,
		logger:     l,
	}
}

// Run polls until ctx is cancelled. Ticks are serialized: if a tick's
// network calls outlast the interval, the next tick is skipped rather
// than overlapped.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.tryBegin() {
				continue
			}
			p.pollLocked(ctx)
		}
	}
}

// PollOnce runs a single reconciliation pass.
func (p *Poller) PollOnce(ctx context.Context) {
	if !p.tryBegin() {
		return
	}
	p.pollLocked(ctx)
}

func (p *Poller) tryBegin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticking {
		return false
	}
	p.ticking = true
	return true
}

func (p *Poller) pollLocked(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.ticking = false
		p.mu.Unlock()
	}()

	pending, err := p.files.ListPendingVideos(ctx, p.owner)
	if err != nil {
		p.errorf("poller: listing pending videos: %s", err)
		return
	}

	for _, f := range pending {
		// Per-record failures are isolated; the record stays in
		// preparing and is retried next tick.
		if err := p.reconcile(ctx, f); err != nil {
			p.errorf("poller: reconciling file %s: %s", f.ID, err)
		}
	}
}

func (p *Poller) reconcile(ctx context.Context, f file.File) error {
	// Nothing to query until the provider has issued an identifier.
	if f.MuxUploadID == "" && f.MuxAssetID == "" {
		return nil
	}

	payload, err := p.status.Check(ctx, f.MuxUploadID, f.MuxAssetID)
	if err != nil {
		return err
	}
	asset := payload.Asset
	if asset == nil {
		return nil
	}

	// Suppress no-op writes when the provider status matches ours.
	if file.MuxStatus(asset.Status) == f.MuxStatus {
		return nil
	}

	upd := file.MuxUpdate{Status: file.MuxStatus(asset.Status)}
	if f.MuxAssetID == "" && asset.ID != "" {
		upd.AssetID = asset.ID
	}
	if len(asset.PlaybackIDs) > 0 {
		upd.PlaybackID = asset.PlaybackIDs[0].ID
	}
	if asset.Thumbnail != "" {
		upd.Thumbnail = asset.Thumbnail
	}

	updated, err := p.files.ApplyMuxUpdate(ctx, f.ID, upd)
	if err != nil {
		return err
	}

	if updated.MuxStatus.IsTerminal() && p.onTerminal != nil {
		p.onTerminal(updated.ID.String(), *asset)
	}
	return nil
}

func (p *Poller) errorf(template string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Errorf(template, args...)
	}
}
