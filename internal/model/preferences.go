package model

import (
	"errors"
	"time"
)

var ErrInvalidPreferences = errors.New("model: invalid preferences")

type Preferences struct {
	SessionMinutes int       `json:"sessionMinutes"`
	BreakMinutes   int       `json:"breakMinutes"`
	AutoAdvance    bool      `json:"autoAdvance"`
	SoundEnabled   bool      `json:"soundEnabled"`
	DailyGoal      int       `json:"dailyGoal"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		SessionMinutes: 25,
		BreakMinutes:   5,
		AutoAdvance:    true,
		SoundEnabled:   true,
		DailyGoal:      8,
	}
}

func (p Preferences) Validate() error {
	if p.SessionMinutes <= 0 || p.BreakMinutes <= 0 {
		return ErrInvalidPreferences
	}
	if p.DailyGoal < 0 {
		return ErrInvalidPreferences
	}
	return nil
}

// DefaultDuration is the insertion default, in seconds, for a card type.
func (p Preferences) DefaultDuration(t CardType) int {
	if t == CardTypeBreak {
		return p.BreakMinutes * 60
	}
	return p.SessionMinutes * 60
}
