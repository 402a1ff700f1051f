package timer

import (
	"strconv"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// SelectCard moves UI focus. Unknown ids are ignored.
func (e *Engine) SelectCard(id string) {
	if e.indexOf(id) < 0 || e.selectedID == id {
		return
	}
	e.selectedID = id
	e.syncFlags()
	e.emitState()
}

// StartTimer plays the explicit card when it is eligible. With an empty id it
// falls back to the active card, then the selected card, then the first card
// with time left. No eligible card means no change.
func (e *Engine) StartTimer(id string) {
	e.cancelAdvance()
	e.start(id)
}

func (e *Engine) start(id string) bool {
	idx := e.resolveTarget(id)
	if idx < 0 {
		return false
	}
	e.activeID = e.cards[idx].ID
	e.selectedID = e.activeID
	e.playing = true
	e.lastTick = e.now()
	e.syncFlags()
	e.emitState()
	return true
}

func (e *Engine) resolveTarget(id string) int {
	if id != "" {
		idx := e.indexOf(id)
		if idx >= 0 && e.cards[idx].Eligible() {
			return idx
		}
		return -1
	}
	for _, candidate := range []string{e.activeID, e.selectedID} {
		if idx := e.indexOf(candidate); idx >= 0 && e.cards[idx].Eligible() {
			return idx
		}
	}
	for i := range e.cards {
		if e.cards[i].Eligible() {
			return i
		}
	}
	return -1
}

// PauseTimer stops the countdown and leaves the remaining time as is.
func (e *Engine) PauseTimer() {
	e.cancelAdvance()
	if !e.playing && e.activeID == "" {
		return
	}
	e.stopPlayback()
	e.emitState()
}

func (e *Engine) ToggleTimer() {
	if e.playing {
		e.PauseTimer()
		return
	}
	e.StartTimer("")
}

// UpdateCardTime sets the remaining seconds directly. Raising the time past
// the duration extends the duration. Playback is left alone; when the active
// card reaches zero this way the next tick finalizes its completion.
func (e *Engine) UpdateCardTime(id string, newTime int) {
	idx := e.indexOf(id)
	if idx < 0 {
		return
	}
	if newTime < 0 {
		newTime = 0
	}
	c := &e.cards[idx]
	wasCompleted := c.IsCompleted
	c.TimeRemaining = newTime
	if newTime > c.Duration {
		c.Duration = newTime
	}
	c.IsCompleted = newTime == 0
	if !c.IsCompleted {
		delete(e.processed, c.ID)
	}
	if c.IsCompleted && !wasCompleted {
		e.carryOver(idx)
	}
	e.emitState()
}

func (e *Engine) ResetCard(id string) {
	idx := e.indexOf(id)
	if idx < 0 {
		return
	}
	c := &e.cards[idx]
	c.TimeRemaining = c.Duration
	c.IsCompleted = false
	c.IsActive = false
	c.Normalize()
	delete(e.processed, c.ID)
	if id == e.activeID {
		e.cancelAdvance()
		e.stopPlayback()
	}
	e.emitState()
}

// CompleteCard marks a card done. Completing the card that is playing stops
// playback and schedules the auto-advance, like a natural expiry.
func (e *Engine) CompleteCard(id string) {
	idx := e.indexOf(id)
	if idx < 0 {
		return
	}
	c := &e.cards[idx]
	if c.IsCompleted && c.TimeRemaining == 0 && id != e.activeID {
		return
	}
	wasPlaying := e.playing && id == e.activeID
	e.cancelAdvance()
	c.IsCompleted = true
	c.TimeRemaining = 0
	c.IsActive = false
	if id == e.activeID {
		e.stopPlayback()
	}
	e.finish(idx, wasPlaying, true)
}

// InsertCard splices a new card at position (clamped to the deck bounds),
// selects it and returns its id. Invalid types are ignored.
func (e *Engine) InsertCard(typ model.CardType, position, duration int) string {
	if !typ.IsValid() {
		return ""
	}
	if position < 0 {
		position = 0
	}
	if position > len(e.cards) {
		position = len(e.cards)
	}
	c := model.NewCard(strconv.Itoa(e.nextID), typ, duration)
	e.cards = append(e.cards, model.Card{})
	copy(e.cards[position+1:], e.cards[position:])
	e.cards[position] = c
	e.selectedID = c.ID
	e.recomputeNextID()
	e.syncFlags()
	e.emitState()
	return c.ID
}

// DeleteCard removes a card. The deck never becomes empty: deleting the last
// card is rejected with a warning notice and returns false.
func (e *Engine) DeleteCard(id string) bool {
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	if len(e.cards) <= 1 {
		e.queue(Event{
			Kind:   EventRejected,
			CardID: id,
			Notice: &Notice{
				Title:       "Cannot delete card",
				Description: "At least one card must remain in the deck.",
				Type:        NoticeWarning,
			},
		})
		return false
	}
	e.cards = append(e.cards[:idx], e.cards[idx+1:]...)
	delete(e.processed, id)
	if e.pending != nil && e.pending.CardID == id {
		e.cancelAdvance()
	}
	if id == e.activeID {
		e.cancelAdvance()
		e.stopPlayback()
	}
	if id == e.selectedID {
		e.selectedID = e.cards[0].ID
	}
	e.recomputeNextID()
	e.repairRefs()
	e.emitState()
	return true
}

// SetCards replaces the whole deck, as when applying a template. Playback
// continues only if the active card survives with time left.
func (e *Engine) SetCards(cards []model.Card) {
	e.cancelAdvance()
	e.replace(cards)
	e.processed = make(map[string]bool)
	if idx := e.indexOf(e.activeID); idx < 0 || !e.cards[idx].Eligible() {
		e.stopPlayback()
	}
	if e.indexOf(e.selectedID) < 0 {
		e.selectedID = ""
		for _, c := range e.cards {
			if c.IsSelected {
				e.selectedID = c.ID
				break
			}
		}
	}
	e.repairRefs()
	e.emitState()
}

// UpdateCardContent replaces the markdown notes of a card.
func (e *Engine) UpdateCardContent(id, content string) {
	idx := e.indexOf(id)
	if idx < 0 || e.cards[idx].Content == content {
		return
	}
	e.cards[idx].Content = content
	e.emitState()
}

func (e *Engine) syncFlags() {
	for i := range e.cards {
		e.cards[i].IsSelected = e.cards[i].ID == e.selectedID
		e.cards[i].IsActive = e.playing && e.cards[i].ID == e.activeID
	}
}
