package poller

import (
	"context"
	"sync"
)

// Controller owns a poller's lifecycle: Start spawns the polling loop,
// Stop cancels it. Stopping does not abort an in-flight tick; its
// patches are still valid and are allowed to land.
type Controller struct {
	poller *Poller

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(p *Poller) *Controller {
	return &Controller{poller: p}
}

// Start launches the polling loop. Calling Start on a running
// controller is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		c.poller.Run(runCtx)
	}(c.done)
}

// Stop cancels the polling loop and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the polling loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
