package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrEmptyTemplate = errors.New("model: template has no cards")

type TemplateCard struct {
	Type    CardType `json:"type" yaml:"type"`
	Minutes int      `json:"minutes" yaml:"minutes"`
	Content string   `json:"content,omitempty" yaml:"content,omitempty"`
}

type Template struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Cards     []TemplateCard `json:"cards"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: template name is required")
	}
	if len(t.Cards) == 0 {
		return ErrEmptyTemplate
	}
	for i, c := range t.Cards {
		if !c.Type.IsValid() {
			return fmt.Errorf("%w: card %d: %q", ErrInvalidCardType, i, c.Type)
		}
		if c.Minutes <= 0 {
			return fmt.Errorf("%w: card %d: %d minutes", ErrInvalidDuration, i, c.Minutes)
		}
	}
	return nil
}

// Build expands the template into a fresh deck with ids 1..n. The first card
// is selected.
func (t Template) Build() []Card {
	out := make([]Card, 0, len(t.Cards))
	for i, tc := range t.Cards {
		c := NewCard(strconv.Itoa(i+1), tc.Type, tc.Minutes*60)
		c.Content = tc.Content
		out = append(out, c)
	}
	if len(out) > 0 {
		out[0].IsSelected = true
	}
	return out
}

// TemplateFromCards captures the shape of a deck. Durations are rounded up
// to whole minutes.
func TemplateFromCards(name string, cards []Card) Template {
	tpl := Template{Name: strings.TrimSpace(name)}
	for _, c := range cards {
		minutes := (c.Duration + 59) / 60
		if minutes <= 0 {
			minutes = 1
		}
		tpl.Cards = append(tpl.Cards, TemplateCard{Type: c.Type, Minutes: minutes})
	}
	return tpl
}

// DefaultDeck is the classic four-session pomodoro layout.
func DefaultDeck(sessionMinutes, breakMinutes int) []Card {
	tpl := Template{Name: "classic"}
	for i := 0; i < 4; i++ {
		tpl.Cards = append(tpl.Cards, TemplateCard{Type: CardTypeSession, Minutes: sessionMinutes})
		if i < 3 {
			tpl.Cards = append(tpl.Cards, TemplateCard{Type: CardTypeBreak, Minutes: breakMinutes})
		}
	}
	return tpl.Build()
}
