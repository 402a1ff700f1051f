package timer

// planAdvance records an intent to start the next eligible card after the
// completed one at idx. The intent is nil when auto-advance is off or nothing
// after idx has time left.
func (e *Engine) planAdvance(idx int) *AdvanceIntent {
	e.pending = nil
	if !e.autoAdvance {
		return nil
	}
	next := -1
	for i := idx + 1; i < len(e.cards); i++ {
		if e.cards[i].Eligible() {
			next = i
			break
		}
	}
	if next < 0 {
		return nil
	}
	e.seq++
	e.pending = &AdvanceIntent{
		CardID: e.cards[next].ID,
		Token:  e.seq,
		Delay:  e.settleDelay,
	}
	out := *e.pending
	return &out
}

// ResumeAdvance carries out a pending intent once its delay has passed. Stale
// intents, superseded by a user action or pointing at a card that is gone or
// no longer has time left, are dropped.
func (e *Engine) ResumeAdvance(intent AdvanceIntent) bool {
	if e.pending == nil || e.pending.Token != intent.Token {
		return false
	}
	e.pending = nil
	idx := e.indexOf(intent.CardID)
	if idx < 0 || !e.cards[idx].Eligible() || e.playing {
		return false
	}
	e.SelectCard(intent.CardID)
	return e.start(intent.CardID)
}

func (e *Engine) cancelAdvance() {
	e.pending = nil
}
