package timer

import (
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

type EventKind string

const (
	EventCompleted   EventKind = "completed"
	EventCarriedOver EventKind = "carried_over"
	EventRejected    EventKind = "rejected"
)

type NoticeType string

const (
	NoticeInfo    NoticeType = "info"
	NoticeWarning NoticeType = "warning"
)

// Notice is a transient, human-readable message for the user.
type Notice struct {
	Title       string
	Description string
	Type        NoticeType
}

// AdvanceIntent asks the driver to call ResumeAdvance after Delay.
type AdvanceIntent struct {
	CardID string
	Token  uint64
	Delay  time.Duration
}

type Event struct {
	Kind     EventKind
	CardID   string
	CardType model.CardType
	// Manual is set for completions requested through CompleteCard.
	Manual  bool
	Notice  *Notice
	Advance *AdvanceIntent
}

// Snapshot is a deep copy of the engine state handed to observers.
type Snapshot struct {
	Cards          []model.Card `json:"cards"`
	IsPlaying      bool         `json:"isPlaying"`
	ActiveCardID   string       `json:"activeCardId,omitempty"`
	SelectedCardID string       `json:"selectedCardId,omitempty"`
	LastUpdated    time.Time    `json:"lastUpdated"`
}

// Hooks observe engine transitions. They are called synchronously from the
// transition and must not block or call back into the engine's mutators.
type Hooks interface {
	OnStateChange(Snapshot)
	OnTimerComplete(cardID string, cardType model.CardType)
}

type NopHooks struct{}

func (NopHooks) OnStateChange(Snapshot)                  {}
func (NopHooks) OnTimerComplete(string, model.CardType) {}

type multiHooks []Hooks

func (m multiHooks) OnStateChange(s Snapshot) {
	for _, h := range m {
		h.OnStateChange(s)
	}
}

func (m multiHooks) OnTimerComplete(id string, t model.CardType) {
	for _, h := range m {
		h.OnTimerComplete(id, t)
	}
}

// MultiHooks fans out to every non-nil hook in order.
func MultiHooks(hooks ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
