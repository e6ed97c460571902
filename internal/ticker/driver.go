// Package ticker supplies wall-clock instants to the projection loop.
package ticker

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidInterval = errors.New("ticker: interval must be positive")

// Driver publishes the current instant on a single-slot channel every
// interval. A consumer that falls behind sees only the newest instant; the
// replaced ones are counted as dropped.
type Driver struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	out      chan time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
	emitted  uint64
}

type Option func(*Driver)

// WithClock replaces time.Now as the instant source.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDriver(interval time.Duration, opts ...Option) (*Driver, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	d := &Driver{
		interval: interval,
		now:      time.Now,
		out:      make(chan time.Time, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) C() <-chan time.Time {
	return d.out
}

// Start emits one instant immediately and then one per interval.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	go d.loop()
}

// Stop halts the driver and closes C. It is safe to call more than once.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stopCh)
	d.mu.Unlock()
	<-d.doneCh
}

func (d *Driver) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

func (d *Driver) Emitted() uint64 {
	return atomic.LoadUint64(&d.emitted)
}

func (d *Driver) loop() {
	defer close(d.doneCh)
	defer close(d.out)

	t := time.NewTicker(d.interval)
	defer t.Stop()

	d.publish()
	for {
		select {
		case <-t.C:
			d.publish()
		case <-d.stopCh:
			return
		}
	}
}

// publish is only called from loop, so the drain-then-send below cannot race
// with another producer.
func (d *Driver) publish() {
	now := d.now()
	select {
	case d.out <- now:
		atomic.AddUint64(&d.emitted, 1)
		return
	default:
	}
	select {
	case <-d.out:
		atomic.AddUint64(&d.dropped, 1)
	default:
	}
	d.out <- now
	atomic.AddUint64(&d.emitted, 1)
}
