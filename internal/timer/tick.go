package timer

import "time"

// Tick advances the active card by the whole seconds elapsed since the last
// consumed second. The reference point moves by exactly the seconds consumed,
// so sub-second remainders carry into the next tick instead of being lost to
// scheduling jitter. It reports whether the deck changed.
func (e *Engine) Tick(now time.Time) bool {
	if !e.playing {
		return false
	}
	idx := e.indexOf(e.activeID)
	if idx < 0 {
		e.stopPlayback()
		e.emitState()
		return true
	}
	c := &e.cards[idx]
	if c.TimeRemaining <= 0 {
		// Remaining time was set to zero by hand while playing.
		e.expire(idx)
		return true
	}
	if e.lastTick.IsZero() {
		e.lastTick = now
		return false
	}

	elapsed := int(now.Sub(e.lastTick) / time.Second)
	if elapsed <= 0 {
		return false
	}
	e.lastTick = e.lastTick.Add(time.Duration(elapsed) * time.Second)

	remaining := c.TimeRemaining - elapsed
	if remaining < 0 {
		remaining = 0
	}
	c.TimeRemaining = remaining
	if remaining == 0 {
		e.expire(idx)
		return true
	}
	e.emitState()
	return true
}

func (e *Engine) expire(idx int) {
	c := &e.cards[idx]
	c.TimeRemaining = 0
	c.IsCompleted = true
	c.IsActive = false
	e.stopPlayback()
	e.finish(idx, true, false)
}

// finish runs the completion side effects for cards[idx], which must already
// be marked completed with playback stopped if it was the active card.
func (e *Engine) finish(idx int, wasPlaying, manual bool) {
	c := e.cards[idx]
	ev := Event{Kind: EventCompleted, CardID: c.ID, CardType: c.Type, Manual: manual}
	if wasPlaying {
		ev.Advance = e.planAdvance(idx)
	}
	e.queue(ev)
	e.carryOver(idx)
	e.emitState()
	e.hooks.OnTimerComplete(c.ID, c.Type)
}
