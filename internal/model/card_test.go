package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewCardStartsFull(t *testing.T) {
	c := NewCard("1", CardTypeSession, 1500)
	if c.TimeRemaining != 1500 || c.IsCompleted || c.IsActive {
		t.Fatalf("unexpected new card: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid card, got: %v", err)
	}
}

func TestNormalizeClampsAndCompletes(t *testing.T) {
	c := Card{ID: "1", Type: CardTypeBreak, Duration: 60, TimeRemaining: -5, IsActive: true}
	c.Normalize()
	if c.TimeRemaining != 0 || !c.IsCompleted || c.IsActive {
		t.Fatalf("expected clamped completed card, got %+v", c)
	}

	c = Card{ID: "2", Type: CardTypeSession, Duration: 60, TimeRemaining: 90}
	c.Normalize()
	if c.Duration != 90 {
		t.Fatalf("expected duration raised to remaining time, got %+v", c)
	}
}

func TestParseCardType(t *testing.T) {
	cases := []struct {
		in   string
		want CardType
	}{
		{"session", CardTypeSession},
		{"Focus", CardTypeSession},
		{" b ", CardTypeBreak},
		{"break", CardTypeBreak},
	}
	for _, tc := range cases {
		got, err := ParseCardType(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseCardType("nap"); !errors.Is(err, ErrInvalidCardType) {
		t.Fatalf("expected ErrInvalidCardType, got %v", err)
	}
}

func TestCardValidateRejectsIncompleteZeroCard(t *testing.T) {
	c := Card{ID: "1", Type: CardTypeSession, Duration: 10, TimeRemaining: 0}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: card with no time remaining must be completed" {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Type = CardType("nap")
	if err := c.Validate(); !errors.Is(err, ErrInvalidCardType) {
		t.Fatalf("expected ErrInvalidCardType, got %v", err)
	}
}

func TestCloneCardsIsDeep(t *testing.T) {
	in := []Card{{ID: "1", Type: CardTypeSession, Todos: []Todo{{ID: "t1", Text: "a", CreatedAt: time.Now()}}}}
	out := CloneCards(in)
	out[0].Todos[0].Text = "changed"
	if in[0].Todos[0].Text != "a" {
		t.Fatal("expected clone not to share todos")
	}
	if CloneCards(nil) != nil {
		t.Fatal("expected nil clone for nil input")
	}
}
