package sound

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/focusdeck/internal/logging"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/timer"
)

// CompletionChime plays a sound when a session finishes. Playback runs on its
// own goroutine; an overlapping completion is skipped rather than queued.
type CompletionChime struct {
	timer.NopHooks

	player  Player
	logger  *log.Logger
	enabled atomic.Bool
	busy    atomic.Bool
	wg      sync.WaitGroup
}

var _ timer.Hooks = (*CompletionChime)(nil)

func NewCompletionChime(player Player, logger *log.Logger, enabled bool) *CompletionChime {
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	c := &CompletionChime{player: player, logger: logger}
	c.enabled.Store(enabled)
	return c
}

func (c *CompletionChime) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

func (c *CompletionChime) Enabled() bool {
	return c.enabled.Load()
}

func (c *CompletionChime) OnTimerComplete(cardID string, cardType model.CardType) {
	if cardType != model.CardTypeSession || !c.enabled.Load() {
		return
	}
	if !c.busy.CompareAndSwap(false, true) {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.busy.Store(false)
		if err := c.player.Play(); err != nil {
			c.logger.Warn("completion sound failed", "card", cardID, "err", err)
		}
	}()
}

// Wait blocks until a sound in flight has been handed to the player.
func (c *CompletionChime) Wait() {
	c.wg.Wait()
}
