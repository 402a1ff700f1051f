package storage

import (
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// DeckSnapshot is the persisted form of the deck. Cards keep their order.
type DeckSnapshot struct {
	Cards          []model.Card
	IsPlaying      bool
	ActiveCardID   string
	SelectedCardID string
	SavedAt        time.Time
}

// HistoryFilter bounds are inclusive of From and exclusive of To. Zero values
// leave a bound open.
type HistoryFilter struct {
	From   time.Time
	To     time.Time
	Type   model.CardType
	Limit  int
	Offset int
}

type TemplateListFilter struct {
	Limit  int
	Offset int
}
