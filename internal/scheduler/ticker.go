package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

const DefaultTickInterval = 250 * time.Millisecond

// Ticker emits the wall-clock time every interval while running. It can be
// started and stopped repeatedly; C stays the same channel for its lifetime.
type Ticker struct {
	interval time.Duration

	mu      sync.Mutex
	out     chan time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	dropped uint64
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{
		interval: interval,
		out:      make(chan time.Time, 1),
	}
}

func (t *Ticker) C() <-chan time.Time {
	return t.out
}

func (t *Ticker) Interval() time.Duration {
	return t.interval
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.loop(t.stopCh, t.doneCh)
}

// Stop returns once the loop goroutine has exited. Ticks still buffered are
// discarded so a later Start does not deliver a stale time.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stopCh, doneCh := t.stopCh, t.doneCh
	t.mu.Unlock()

	close(stopCh)
	<-doneCh
	for {
		select {
		case <-t.out:
		default:
			return
		}
	}
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) Dropped() uint64 {
	return atomic.LoadUint64(&t.dropped)
}

func (t *Ticker) loop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case now := <-tk.C:
			select {
			case t.out <- now:
			default:
				atomic.AddUint64(&t.dropped, 1)
			}
		case <-stopCh:
			return
		}
	}
}
