// Package overlay implements the ViewGate session controller.
package overlay

import (
	"context"
	"sync"
	"time"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
)

// DefaultProbeInterval is the probe period used when none is configured.
const DefaultProbeInterval = 30 * time.Second

// ProberConfig wires a Prober.
type ProberConfig struct {
	Controller *Controller
	State      *State

	// Interval between probes. Zero means DefaultProbeInterval.
	Interval time.Duration

	Logger logger.Logger

	// OnChange is invoked after any probe whose decision changed the
	// session, typically to push the rebuilt view to the client. It
	// runs on the prober goroutine.
	OnChange func(*EvalResult)
}

// Prober re-checks the session on a timer so that a revoked or expired
// token is noticed even while the user is idle. It serializes its own
// access to the shared state; callers touching the same State from
// other goroutines must go through Do.
type Prober struct {
	controller *Controller
	state      *State
	interval   time.Duration
	logger     logger.Logger
	onChange   func(*EvalResult)

	mu sync.Mutex

	lifecycle sync.Mutex
	started   bool
	stopped   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewProber creates a Prober. Controller and State are required.
func NewProber(cfg ProberConfig) (*Prober, error) {
	if cfg.Controller == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("controller is required")
	}
	if cfg.State == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("state is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Prober{
		controller: cfg.Controller,
		state:      cfg.State,
		interval:   interval,
		logger:     log,
		onChange:   cfg.OnChange,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Start launches the probe loop. Repeated calls, and calls after Stop,
// are no-ops.
func (p *Prober) Start() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true
	go p.loop()
}

// Stop halts the probe loop and waits for it to exit. Safe to call
// repeatedly, and on a Prober that never started.
func (p *Prober) Stop() {
	p.lifecycle.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.stopCh)
		if !p.started {
			close(p.doneCh)
		}
	}
	p.lifecycle.Unlock()

	<-p.doneCh
}

// Do runs fn while holding the prober's state lock, so interactive
// evaluations and timed probes never interleave on the same State.
func (p *Prober) Do(fn func(s *State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.state)
}

func (p *Prober) loop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.probeOnce()
		}
	}
}

// probeOnce runs a single timed probe against the shared state.
func (p *Prober) probeOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	p.mu.Lock()
	res, err := p.controller.Evaluate(ctx, p.state, EventStatusProbe, domain.Credentials{})
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("timed probe failed", "error", err)
		return
	}

	if res.Changed && p.onChange != nil {
		p.onChange(res)
	}
}
