// Package poll runs periodic background refreshes against the backend.
// Each concern (messages, notifications, location freshness) owns one Poller;
// all of them pause while the terminal is unfocused and resume on focus,
// mirroring document-visibility pausing in a browser.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one poll iteration. Errors are swallowed by the poller after
// debug-logging: a failed poll means stale data until the next tick, never
// user-visible noise.
type Task func(ctx context.Context) error

type Poller struct {
	name     string
	interval time.Duration
	task     Task
	log      *zap.Logger

	mu      sync.Mutex
	paused  bool
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New builds a poller; Start launches it.
func New(name string, interval time.Duration, task Task, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
		log:      log.Named(name),
	}
}

// Start runs the task once immediately, then on every interval tick until the
// context is cancelled or Stop is called. Calling Start twice is a no-op.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true
	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.isPaused() {
				continue
			}
			p.run(ctx)
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if err := p.task(ctx); err != nil && ctx.Err() == nil {
		p.log.Debug("poll failed", zap.Error(err))
	}
}

// Pause skips ticks until Resume. The ticker keeps running; a paused poller
// costs one channel receive per interval.
func (p *Poller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume re-enables ticks.
func (p *Poller) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

func (p *Poller) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once
// and before Start; a stopped poller may be started again.
func (p *Poller) Stop() {
	p.mu.Lock()
	started := p.started
	cancel := p.cancel
	done := p.done
	p.started = false
	p.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-done
}

// Set groups pollers that pause and resume together.
type Set struct {
	pollers []*Poller
}

func (s *Set) Add(p *Poller) { s.pollers = append(s.pollers, p) }

func (s *Set) Start(ctx context.Context) {
	for _, p := range s.pollers {
		p.Start(ctx)
	}
}

func (s *Set) Pause() {
	for _, p := range s.pollers {
		p.Pause()
	}
}

func (s *Set) Resume() {
	for _, p := range s.pollers {
		p.Resume()
	}
}

func (s *Set) Stop() {
	for _, p := range s.pollers {
		p.Stop()
	}
}
