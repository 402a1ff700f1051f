// Package persist mirrors engine state into storage. Writes happen off the
// engine's call path; failures are logged and never reach the engine.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/focusdeck/internal/logging"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/timer"
)

const (
	DefaultDebounce     = 500 * time.Millisecond
	defaultWriteTimeout = 5 * time.Second
)

type Store interface {
	SaveSnapshot(ctx context.Context, in storage.DeckSnapshot) error
	AppendHistory(ctx context.Context, in model.HistoryEntry) error
}

type Option func(*Adapter)

func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.debounce = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// Adapter implements timer.Hooks.
type Adapter struct {
	store    Store
	logger   *log.Logger
	debounce time.Duration
	now      func() time.Time

	mu      sync.Mutex
	latest  *timer.Snapshot
	dirty   bool
	started bool
	stopped bool

	signal  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	appends sync.WaitGroup
}

var _ timer.Hooks = (*Adapter)(nil)

func New(store Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:    store,
		logger:   logging.Discard(),
		debounce: DefaultDebounce,
		now:      time.Now,
		signal:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.stopped {
		return
	}
	a.started = true
	go a.loop()
}

// Stop writes any pending snapshot and waits for in-flight history appends.
func (a *Adapter) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	started := a.started
	a.mu.Unlock()

	if started {
		close(a.stopCh)
		<-a.doneCh
	} else {
		a.flush()
	}
	a.appends.Wait()
}

func (a *Adapter) OnStateChange(s timer.Snapshot) {
	a.mu.Lock()
	a.latest = &s
	a.dirty = true
	a.mu.Unlock()

	select {
	case a.signal <- struct{}{}:
	default:
	}
}

// OnTimerComplete records a history entry for the card as it appears in the
// latest snapshot.
func (a *Adapter) OnTimerComplete(cardID string, cardType model.CardType) {
	a.mu.Lock()
	var card *model.Card
	if a.latest != nil {
		for i := range a.latest.Cards {
			if a.latest.Cards[i].ID == cardID {
				c := a.latest.Cards[i].Clone()
				card = &c
				break
			}
		}
	}
	stopped := a.stopped
	if card != nil && !stopped {
		a.appends.Add(1)
	}
	a.mu.Unlock()

	if card == nil {
		a.logger.Warn("completed card missing from snapshot", "card", cardID, "type", cardType)
		return
	}
	if stopped {
		a.logger.Warn("history dropped after stop", "card", cardID)
		return
	}

	entry := model.HistoryEntry{
		ID:          uuid.NewString(),
		CardID:      card.ID,
		CardType:    cardType,
		DurationSec: card.Duration,
		Content:     card.Content,
		Todos:       card.Todos,
		CompletedAt: a.now().UTC(),
	}
	go func() {
		defer a.appends.Done()
		ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
		defer cancel()
		if err := a.store.AppendHistory(ctx, entry); err != nil {
			a.logger.Error("append history failed", "card", entry.CardID, "err", err)
		}
	}()
}

func (a *Adapter) loop() {
	defer close(a.doneCh)

	var pending *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-a.signal:
			// Writes happen at most once per debounce window.
			if pending == nil {
				pending = time.NewTimer(a.debounce)
				fire = pending.C
			}
		case <-fire:
			pending, fire = nil, nil
			a.flush()
		case <-a.stopCh:
			if pending != nil {
				pending.Stop()
			}
			a.flush()
			return
		}
	}
}

func (a *Adapter) flush() {
	a.mu.Lock()
	if !a.dirty || a.latest == nil {
		a.mu.Unlock()
		return
	}
	snap := *a.latest
	a.dirty = false
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	if err := a.store.SaveSnapshot(ctx, toDeckSnapshot(snap)); err != nil {
		a.logger.Error("save snapshot failed", "cards", len(snap.Cards), "err", err)
	}
}

func toDeckSnapshot(s timer.Snapshot) storage.DeckSnapshot {
	return storage.DeckSnapshot{
		Cards:          s.Cards,
		IsPlaying:      s.IsPlaying,
		ActiveCardID:   s.ActiveCardID,
		SelectedCardID: s.SelectedCardID,
		SavedAt:        s.LastUpdated,
	}
}
