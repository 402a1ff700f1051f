package timer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sandeepkv93/focusdeck/internal/checklist"
	"github.com/sandeepkv93/focusdeck/internal/model"
)

// carryOver moves the open tasks of the completed session at idx into the
// next session that is not completed. It runs at most once per completion.
func (e *Engine) carryOver(idx int) {
	done := e.cards[idx]
	if done.Type != model.CardTypeSession || !done.IsCompleted || done.TimeRemaining != 0 {
		return
	}
	if e.processed[done.ID] {
		return
	}
	e.processed[done.ID] = true

	items := checklist.OpenItems(done.Content)
	if len(items) == 0 {
		return
	}
	target := -1
	for i := idx + 1; i < len(e.cards); i++ {
		if e.cards[i].Type == model.CardTypeSession && !e.cards[i].IsCompleted {
			target = i
			break
		}
	}
	if target < 0 {
		// Nowhere to go; the tasks stay only in the completed card.
		return
	}

	next := &e.cards[target]
	next.Content = checklist.Prepend(checklist.CarryOverItems(items), next.Content)
	now := e.now().UTC()
	carried := make([]model.Todo, 0, len(items)+len(next.Todos))
	for _, it := range items {
		carried = append(carried, model.Todo{ID: uuid.NewString(), Text: it.Text, CreatedAt: now})
	}
	next.Todos = append(carried, next.Todos...)

	e.queue(Event{
		Kind:     EventCarriedOver,
		CardID:   next.ID,
		CardType: next.Type,
		Notice: &Notice{
			Title:       "Tasks carried over",
			Description: fmt.Sprintf("%s moved to the next session.", pluralTasks(len(items))),
			Type:        NoticeInfo,
		},
	})
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
