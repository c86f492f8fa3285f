package ticker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickFunc receives the seconds remaining after the tick has been applied.
type TickFunc func(remaining int)

// ExpireFunc runs once when the countdown reaches zero.
type ExpireFunc func()

// Config configures countdown behaviour.
type Config struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Countdown drives a cooperative per-interval countdown on a single
// goroutine. Each tick runs to completion before the next is armed, so
// ticks never overlap, and stopping the countdown cancels any pending
// tick.
type Countdown struct {
	name     string
	interval time.Duration
	logger   *zap.Logger

	onTick   TickFunc
	onExpire ExpireFunc

	remaining int

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	started bool
}

// New builds a countdown of the given number of seconds.
func New(name string, seconds int, onTick TickFunc, onExpire ExpireFunc, cfg Config) *Countdown {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Countdown{
		name:      name,
		interval:  cfg.Interval,
		logger:    cfg.Logger,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: seconds,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the countdown goroutine. Subsequent calls are no-ops.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	go c.run()
}

func (c *Countdown) run() {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-timer.C:
		}

		c.remaining--
		if c.remaining <= 0 {
			c.logger.Debug("countdown expired", zap.String("countdown", c.name))
			if c.onExpire != nil {
				c.onExpire()
			}
			return
		}

		if c.onTick != nil {
			c.onTick(c.remaining)
		}

		// Re-arm only after the callback has returned.
		timer.Reset(c.interval)
	}
}

// Stop cancels any pending tick. Safe to call more than once, and safe
// to call from the expiry path: a finished countdown simply ignores it.
func (c *Countdown) Stop() {
	c.cancel()
}
