package model

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

type HistoryEntry struct {
	ID          string    `json:"id"`
	CardID      string    `json:"cardId"`
	CardType    CardType  `json:"cardType"`
	DurationSec int       `json:"durationSec"`
	Content     string    `json:"content,omitempty"`
	Todos       []Todo    `json:"todos,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

func (h HistoryEntry) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: history id is required")
	}
	if !h.CardType.IsValid() {
		return ErrInvalidCardType
	}
	if h.CompletedAt.IsZero() {
		return errors.New("model: history completed_at is required")
	}
	return nil
}

func (h HistoryEntry) Day() string {
	return h.CompletedAt.Format(DayLayout)
}

type DaySummary struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	Breaks       int    `json:"breaks"`
	FocusSeconds int    `json:"focusSeconds"`
}

// Summarize groups entries by local day in ascending date order.
func Summarize(entries []HistoryEntry) []DaySummary {
	byDay := make(map[string]*DaySummary)
	order := make([]string, 0)
	for _, e := range entries {
		day := e.Day()
		s, ok := byDay[day]
		if !ok {
			s = &DaySummary{Date: day}
			byDay[day] = s
			order = append(order, day)
		}
		if e.CardType == CardTypeSession {
			s.Sessions++
			s.FocusSeconds += e.DurationSec
		} else {
			s.Breaks++
		}
	}
	sort.Strings(order)
	out := make([]DaySummary, 0, len(order))
	for _, day := range order {
		out = append(out, *byDay[day])
	}
	return out
}

// GoalProgress is the completed fraction of a daily goal, capped at 1.
func GoalProgress(goal, done int) float64 {
	if goal <= 0 {
		return 0
	}
	if done >= goal {
		return 1
	}
	return float64(done) / float64(goal)
}
