package poller

import (
	"context"
	"sync"
	"time"

	"mediavault/pkg/logger"
)

// Manager runs one reconciliation poller per active user. A poller
// starts when the user's first session attaches and stops when the last
// one detaches, so no polling loop outlives the context that needed it.
type Manager struct {
	files      FileSource
	status     StatusChecker
	interval   time.Duration
	onTerminal func(userID string) TransitionFunc
	logger     *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	controller *Controller
	refs       int
}

func NewManager(files FileSource, status StatusChecker, interval time.Duration, onTerminal func(userID string) TransitionFunc, l *logger.Logger) *Manager {
	return &Manager{
		files:      files,
		status:     status,
		interval:   interval,
		onTerminal: onTerminal,
		logger:     l,
		entries:    make(map[string]*entry),
	}
}

// Acquire attaches a session to the user's poller, starting it if this
// is the first attachment.
func (m *Manager) Acquire(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[userID]; ok {
		e.refs++
		return
	}

	var onTerminal TransitionFunc
	if m.onTerminal != nil {
		onTerminal = m.onTerminal(userID)
	}
	p := New(m.files, m.status, userID, m.interval, onTerminal, m.logger)
	c := NewController(p)
	c.Start(ctx)
	m.entries[userID] = &entry{controller: c, refs: 1}
}

// Release detaches a session; the poller stops once no sessions remain.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	e, ok := m.entries[userID]
	if ok {
		e.refs--
		if e.refs > 0 {
			m.mu.Unlock()
			return
		}
		delete(m.entries, userID)
	}
	m.mu.Unlock()

	if ok {
		e.controller.Stop()
	}
}

// StopAll shuts down every running poller; used on server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		e.controller.Stop()
	}
}

// Active reports whether a poller is currently running for the user.
func (m *Manager) Active(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[userID]
	return ok
}
