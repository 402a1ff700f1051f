// Package timer owns the ordered deck of session and break cards, the
// countdown of the active card and the side effects of completing one.
//
// The Engine is not safe for concurrent use. Every transition updates the
// deck synchronously, so a tick always observes the latest state.
package timer

import (
	"strconv"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

const (
	DefaultSettleDelay  = 100 * time.Millisecond
	DefaultTickInterval = 250 * time.Millisecond
)

type Clock func() time.Time

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.settleDelay = d
		}
	}
}

func WithAutoAdvance(enabled bool) Option {
	return func(e *Engine) { e.autoAdvance = enabled }
}

type Engine struct {
	cards       []model.Card
	selectedID  string
	activeID    string
	playing     bool
	lastTick    time.Time
	nextID      int
	now         Clock
	hooks       Hooks
	settleDelay time.Duration
	autoAdvance bool

	// processed holds ids whose completion already ran the carry-over.
	processed map[string]bool
	pending   *AdvanceIntent
	seq       uint64
	events    []Event
}

// New builds an engine around a copy of cards. The deck starts paused; any
// active flags in the input are cleared.
func New(cards []model.Card, opts ...Option) *Engine {
	e := &Engine{
		now:         time.Now,
		hooks:       NopHooks{},
		settleDelay: DefaultSettleDelay,
		autoAdvance: true,
		processed:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.replace(cards)
	for i := range e.cards {
		if e.cards[i].IsSelected && e.selectedID == "" {
			e.selectedID = e.cards[i].ID
		}
	}
	e.repairRefs()
	return e
}

func (e *Engine) SetAutoAdvance(enabled bool) {
	e.autoAdvance = enabled
	if !enabled {
		e.cancelAdvance()
	}
}

func (e *Engine) Cards() []model.Card { return model.CloneCards(e.cards) }

func (e *Engine) Len() int { return len(e.cards) }

func (e *Engine) Card(id string) (model.Card, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return model.Card{}, false
	}
	return e.cards[idx].Clone(), true
}

func (e *Engine) SelectedID() string { return e.selectedID }

func (e *Engine) ActiveID() string { return e.activeID }

func (e *Engine) IsPlaying() bool { return e.playing }

// PendingAdvance reports the auto-advance intent waiting for its delay.
func (e *Engine) PendingAdvance() (AdvanceIntent, bool) {
	if e.pending == nil {
		return AdvanceIntent{}, false
	}
	return *e.pending, true
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Cards:          model.CloneCards(e.cards),
		IsPlaying:      e.playing,
		ActiveCardID:   e.activeID,
		SelectedCardID: e.selectedID,
		LastUpdated:    e.now().UTC(),
	}
}

// DrainEvents returns queued events in order and clears the queue.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}

func (e *Engine) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.cards {
		if e.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) replace(cards []model.Card) {
	e.cards = model.CloneCards(cards)
	if e.cards == nil {
		e.cards = make([]model.Card, 0)
	}
	for i := range e.cards {
		e.cards[i].IsActive = false
		e.cards[i].Normalize()
	}
	e.recomputeNextID()
}

func (e *Engine) recomputeNextID() {
	highest := 0
	for _, c := range e.cards {
		if n, err := strconv.Atoi(c.ID); err == nil && n > highest {
			highest = n
		}
	}
	e.nextID = highest + 1
}

// repairRefs drops references to cards that left the deck and keeps the
// per-card flags in line with selectedID and activeID.
func (e *Engine) repairRefs() {
	if e.activeID != "" && e.indexOf(e.activeID) < 0 {
		e.stopPlayback()
	}
	if e.indexOf(e.selectedID) < 0 {
		e.selectedID = ""
		if len(e.cards) > 0 {
			e.selectedID = e.cards[0].ID
		}
	}
	e.syncFlags()
}

func (e *Engine) stopPlayback() {
	e.playing = false
	e.activeID = ""
	e.lastTick = time.Time{}
	for i := range e.cards {
		e.cards[i].IsActive = false
	}
}

func (e *Engine) emitState() {
	e.hooks.OnStateChange(e.Snapshot())
}

func (e *Engine) queue(ev Event) {
	e.events = append(e.events, ev)
}
