package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCardType = errors.New("model: invalid card type")
	ErrInvalidDuration = errors.New("model: invalid card duration")
)

type CardType string

const (
	CardTypeSession CardType = "session"
	CardTypeBreak   CardType = "break"
)

func (t CardType) IsValid() bool {
	switch t {
	case CardTypeSession, CardTypeBreak:
		return true
	default:
		return false
	}
}

// ParseCardType accepts the canonical names plus a few short aliases used by
// the command palette.
func ParseCardType(raw string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "session", "s", "focus", "work":
		return CardTypeSession, nil
	case "break", "b", "rest":
		return CardTypeBreak, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCardType, raw)
	}
}

type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Card is one timed unit of work. Durations are whole seconds.
type Card struct {
	ID            string   `json:"id"`
	Type          CardType `json:"type"`
	Duration      int      `json:"duration"`
	TimeRemaining int      `json:"timeRemaining"`
	IsActive      bool     `json:"isActive"`
	IsCompleted   bool     `json:"isCompleted"`
	IsSelected    bool     `json:"isSelected"`
	Content       string   `json:"content,omitempty"`
	Todos         []Todo   `json:"todos,omitempty"`
}

func NewCard(id string, typ CardType, duration int) Card {
	c := Card{
		ID:            id,
		Type:          typ,
		Duration:      duration,
		TimeRemaining: duration,
	}
	c.Normalize()
	return c
}

// Normalize clamps TimeRemaining into [0, Duration] and marks a card with no
// time left as completed.
func (c *Card) Normalize() {
	if c.Duration < 0 {
		c.Duration = 0
	}
	if c.TimeRemaining < 0 {
		c.TimeRemaining = 0
	}
	if c.TimeRemaining > c.Duration {
		c.Duration = c.TimeRemaining
	}
	if c.TimeRemaining == 0 {
		c.IsCompleted = true
		c.IsActive = false
	}
}

// Eligible reports whether the card can be started.
func (c Card) Eligible() bool {
	return !c.IsCompleted && c.TimeRemaining > 0
}

func (c Card) Clone() Card {
	out := c
	if c.Todos != nil {
		out.Todos = make([]Todo, len(c.Todos))
		copy(out.Todos, c.Todos)
	}
	return out
}

func CloneCards(in []Card) []Card {
	if in == nil {
		return nil
	}
	out := make([]Card, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: card id is required")
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCardType, c.Type)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, c.Duration)
	}
	if c.TimeRemaining < 0 || c.TimeRemaining > c.Duration {
		return fmt.Errorf("model: time remaining %d out of range [0, %d]", c.TimeRemaining, c.Duration)
	}
	if c.TimeRemaining == 0 && !c.IsCompleted {
		return errors.New("model: card with no time remaining must be completed")
	}
	return nil
}
