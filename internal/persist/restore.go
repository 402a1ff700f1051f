package persist

import (
	"context"
	"errors"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

type Loader interface {
	LoadSnapshot(ctx context.Context) (storage.DeckSnapshot, error)
}

// Restore returns the deck from the last saved snapshot, ready to hand to
// timer.New. The second-boundary reference is not stored, so a deck that was
// playing comes back paused with its remaining time intact. ok is false when
// nothing was saved yet.
func Restore(ctx context.Context, loader Loader) (cards []model.Card, ok bool, err error) {
	snap, err := loader.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(snap.Cards) == 0 {
		return nil, false, nil
	}

	cards = model.CloneCards(snap.Cards)
	selected := snap.SelectedCardID
	if selected == "" {
		selected = snap.ActiveCardID
	}
	for i := range cards {
		cards[i].IsActive = false
		cards[i].IsSelected = cards[i].ID == selected
		cards[i].Normalize()
	}
	return cards, true, nil
}
