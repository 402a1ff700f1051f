package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/checklist"
	"github.com/sandeepkv93/focusdeck/internal/commands"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/timer"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) handleDeckKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	selected := m.Engine.SelectedID()
	switch msg.String() {
	case " ":
		m.Engine.ToggleTimer()
	case "s", "enter":
		m.Engine.StartTimer(selected)
	case "p":
		m.Engine.PauseTimer()
	case "r":
		m.Engine.ResetCard(selected)
	case "c":
		m.Engine.CompleteCard(selected)
	case "a":
		m.insertCard(model.CardTypeSession, 0, 0)
	case "b":
		m.insertCard(model.CardTypeBreak, 0, 0)
	case "x", "delete":
		if m.Engine.DeleteCard(selected) {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted card %s", selected)}
		}
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "+", "=":
		m.adjustTime(60)
	case "-", "_":
		m.adjustTime(-60)
	case "t":
		card, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		m.TimeEditor = TimeEditorState{Active: true, CardID: card.ID}
		m.timeInput.SetValue(commands.FormatClock(card.TimeRemaining))
		m.timeInput.CursorEnd()
		m.timeInput.Focus()
		return m, nil
	case "e":
		m.CurrentView = ViewNotes
		m.startNotesEdit()
		return m, nil
	default:
		return m, nil
	}
	return m, m.afterEngine()
}

func (m Model) handleTimeEditorKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.TimeEditor = TimeEditorState{}
		m.timeInput.Blur()
		m.Status = StatusBar{Text: "time edit cancelled"}
		return m, nil
	case "enter":
		secs, err := commands.ParseClock(m.timeInput.Value())
		if err != nil {
			m.TimeEditor.Err = err.Error()
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		id := m.TimeEditor.CardID
		m.TimeEditor = TimeEditorState{}
		m.timeInput.Blur()
		m.Engine.UpdateCardTime(id, secs)
		m.Status = StatusBar{Text: fmt.Sprintf("card %s set to %s", id, commands.FormatClock(secs))}
		return m, m.afterEngine()
	}
	var cmd tea.Cmd
	m.timeInput, cmd = m.timeInput.Update(msg)
	return m, cmd
}

// insertCard places a card at a 1-based position; zero means right after the
// selected card. Zero minutes uses the preference default for the type.
func (m *Model) insertCard(typ model.CardType, position, minutes int) string {
	idx := position - 1
	if position <= 0 {
		idx = m.selectedIndex() + 1
	}
	duration := m.Prefs.DefaultDuration(typ)
	if minutes > 0 {
		duration = minutes * 60
	}
	id := m.Engine.InsertCard(typ, idx, duration)
	if id != "" {
		m.Status = StatusBar{Text: fmt.Sprintf("added %s card %s", typ, id)}
	}
	return id
}

func (m *Model) moveSelection(delta int) {
	cards := m.Engine.Cards()
	if len(cards) == 0 {
		return
	}
	idx := m.selectedIndex() + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(cards) {
		idx = len(cards) - 1
	}
	m.Engine.SelectCard(cards[idx].ID)
}

func (m *Model) adjustTime(delta int) {
	card, ok := m.selectedCard()
	if !ok {
		return
	}
	next := card.TimeRemaining + delta
	if next < 0 {
		next = 0
	}
	m.Engine.UpdateCardTime(card.ID, next)
}

func (m Model) selectedCard() (model.Card, bool) {
	return m.Engine.Card(m.Engine.SelectedID())
}

func (m Model) selectedIndex() int {
	id := m.Engine.SelectedID()
	for i, c := range m.Engine.Cards() {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// afterEngine turns the events queued by the last transitions into UI
// feedback and keeps the tick and advance drivers in step with the engine.
func (m *Model) afterEngine() tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.Engine.DrainEvents() {
		if cmd := m.applyEvent(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if _, ok := m.Engine.PendingAdvance(); !ok && m.Scheduler != nil {
		m.Scheduler.Cancel(advanceEventID)
	}
	m.syncTicker()
	return tea.Batch(cmds...)
}

func (m *Model) applyEvent(ev timer.Event) tea.Cmd {
	var cmds []tea.Cmd
	switch ev.Kind {
	case timer.EventCompleted:
		if ev.CardType == model.CardTypeSession {
			m.TodaySessions++
		}
		text := fmt.Sprintf("%s %s complete", titleCase(string(ev.CardType)), ev.CardID)
		if ev.Manual {
			text = fmt.Sprintf("%s %s marked complete", titleCase(string(ev.CardType)), ev.CardID)
		}
		m.Status = StatusBar{Text: text}
		cmds = append(cmds, m.notify("Timer", text, "info"))
	case timer.EventCarriedOver:
		m.reseedNotes(ev.CardID)
	}
	if ev.Notice != nil {
		isWarn := ev.Notice.Type == timer.NoticeWarning
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", ev.Notice.Title, ev.Notice.Description), IsError: isWarn}
		cmds = append(cmds, m.notify(ev.Notice.Title, ev.Notice.Description, string(ev.Notice.Type)))
	}
	if ev.Advance != nil {
		cmds = append(cmds, m.scheduleAdvance(*ev.Advance))
	}
	return tea.Batch(cmds...)
}

// scheduleAdvance hands the intent to the scheduler. Without one, a plain
// bubbletea timer delivers it; ResumeAdvance rejects it if it went stale.
func (m *Model) scheduleAdvance(intent timer.AdvanceIntent) tea.Cmd {
	ev := scheduler.Event{
		ID:        advanceEventID,
		Kind:      scheduler.KindAdvance,
		CardID:    intent.CardID,
		Token:     intent.Token,
		TriggerAt: m.now().Add(intent.Delay),
	}
	if m.Scheduler != nil {
		err := m.Scheduler.Schedule(ev)
		if err == nil {
			return nil
		}
		m.logger.Warn("schedule auto-advance failed", "card", intent.CardID, "err", err)
	}
	return tea.Tick(intent.Delay, func(time.Time) tea.Msg { return AdvanceDueMsg{Event: ev} })
}

func (m *Model) resumeAdvance(ev scheduler.Event) {
	if ev.Kind != "" && ev.Kind != scheduler.KindAdvance {
		return
	}
	if m.Engine.ResumeAdvance(timer.AdvanceIntent{CardID: ev.CardID, Token: ev.Token}) {
		m.Status = StatusBar{Text: fmt.Sprintf("started card %s", ev.CardID)}
	}
}

func (m *Model) syncTicker() {
	if m.Ticker == nil {
		return
	}
	if m.Engine.IsPlaying() {
		m.Ticker.Start()
		return
	}
	m.Ticker.Stop()
}

func (m Model) renderDeckView() string {
	cards := m.Engine.Cards()
	rows := make([]views.CardRowData, 0, len(cards))
	for i, c := range cards {
		done, total := checklist.Progress(c.Content)
		rows = append(rows, views.CardRowData{
			Position:  i + 1,
			ID:        c.ID,
			Type:      string(c.Type),
			Clock:     commands.FormatClock(c.TimeRemaining),
			Active:    c.IsActive,
			Selected:  c.IsSelected,
			Completed: c.IsCompleted,
			TaskDone:  done,
			TaskTotal: total,
		})
	}
	return views.RenderDeckPanel(views.DeckPanelData{Cards: rows, Playing: m.Engine.IsPlaying()})
}

func (m Model) renderCardDetail() string {
	card, ok := m.selectedCard()
	if !ok {
		return views.RenderCardDetail(views.CardDetailData{})
	}
	pct := cardProgress(card.Duration, card.TimeRemaining)
	done, total := checklist.Progress(card.Content)
	data := views.CardDetailData{
		ID:           card.ID,
		Type:         string(card.Type),
		Clock:        commands.FormatClock(card.TimeRemaining),
		Duration:     commands.FormatClock(card.Duration),
		ProgressView: m.cardProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
		State:        cardState(card),
		TaskDone:     done,
		TaskTotal:    total,
	}
	if m.TimeEditor.Active {
		data.TimeEditor = m.timeInput.View()
		if m.TimeEditor.Err != "" {
			data.TimeEditor += "\nerror: " + m.TimeEditor.Err
		}
	}
	if strings.TrimSpace(card.Content) != "" {
		data.NotesPreview = m.previewPort.View()
	}
	return views.RenderCardDetail(data)
}

func cardState(c model.Card) string {
	switch {
	case c.IsActive:
		return "running"
	case c.IsCompleted:
		return "completed"
	case c.TimeRemaining < c.Duration:
		return "paused"
	default:
		return "ready"
	}
}

func cardProgress(duration, remaining int) float64 {
	if duration <= 0 {
		return 1
	}
	pct := float64(duration-remaining) / float64(duration)
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
