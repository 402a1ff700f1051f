package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/checklist"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/timer"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newTestModel(t *testing.T, deps Deps, cards ...model.Card) (Model, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	if len(cards) == 0 {
		cards = []model.Card{
			model.NewCard("1", model.CardTypeSession, 1500),
			model.NewCard("2", model.CardTypeBreak, 300),
		}
	}
	if deps.Engine == nil {
		deps.Engine = timer.New(cards, timer.WithClock(clock.Now))
	}
	if deps.Now == nil {
		deps.Now = clock.Now
	}
	if deps.Preferences == (model.Preferences{}) {
		deps.Preferences = model.DefaultPreferences()
	}
	return NewModel(deps), clock
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runPalette(t *testing.T, m Model, input string) Model {
	t.Helper()
	return press(t, m, "/", input, "enter")
}

// runCmd executes cmd and any batched commands, returning their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func openRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "focusdeck.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	if m.CurrentView != ViewDeck {
		t.Fatalf("expected default view %q, got %q", ViewDeck, m.CurrentView)
	}
	if m.Keys.Quit != "q" || m.Keys.Templates != "4" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if m.Prefs.DailyGoal != 8 || m.Engine.SelectedID() != "1" {
		t.Fatalf("unexpected defaults: prefs=%+v selected=%q", m.Prefs, m.Engine.SelectedID())
	}
}

func TestNewModelFallsBackOnInvalidPreferences(t *testing.T) {
	m := NewModel(Deps{Preferences: model.Preferences{SessionMinutes: -1}})
	if m.Prefs != model.DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", m.Prefs)
	}
	if m.Engine == nil {
		t.Fatal("expected an engine")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, "2")
	if m.CurrentView != ViewNotes {
		t.Fatalf("expected notes view, got %q", m.CurrentView)
	}
	m = press(t, m, "3")
	if m.CurrentView != ViewHistory {
		t.Fatalf("expected history view, got %q", m.CurrentView)
	}
	m = press(t, m, "4", "1")
	if m.CurrentView != ViewDeck {
		t.Fatalf("expected deck view, got %q", m.CurrentView)
	}

	updated, _ := m.Update(SwitchViewMsg{View: View("Unknown")})
	if updated.(Model).CurrentView != ViewDeck {
		t.Fatal("expected view unchanged for unknown view")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	if updated.(Model).Status != (StatusBar{}) {
		t.Fatal("expected cleared status")
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, " ")
	if !m.Engine.IsPlaying() || m.Engine.ActiveID() != "1" {
		t.Fatalf("expected card 1 playing, active=%q", m.Engine.ActiveID())
	}
	m = press(t, m, " ")
	if m.Engine.IsPlaying() {
		t.Fatal("expected playback paused")
	}
}

func TestPlaybackDrivesTicker(t *testing.T) {
	ticker := scheduler.NewTicker(time.Hour)
	t.Cleanup(ticker.Stop)
	m, _ := newTestModel(t, Deps{Ticker: ticker})

	m = press(t, m, " ")
	if !ticker.Running() {
		t.Fatal("expected ticker running while playing")
	}
	m = press(t, m, "p")
	if ticker.Running() {
		t.Fatal("expected ticker stopped after pause")
	}
	m = press(t, m, "s")
	if !ticker.Running() {
		t.Fatal("expected ticker running after start")
	}
	if _, cmd := m.quit(); cmd == nil || ticker.Running() {
		t.Fatal("expected quit to stop the ticker")
	}
}

func TestTickMsgCountsDownActiveCard(t *testing.T) {
	m, clock := newTestModel(t, Deps{})
	m = press(t, m, "s")

	updated, _ := m.Update(TickMsg{At: clock.Advance(3500 * time.Millisecond)})
	m = updated.(Model)
	card, _ := m.Engine.Card("1")
	if card.TimeRemaining != 1497 {
		t.Fatalf("expected 1497 remaining, got %d", card.TimeRemaining)
	}
}

func TestCompletionSchedulesAutoAdvance(t *testing.T) {
	notifier := &recordingNotifier{}
	m, clock := newTestModel(t, Deps{Notifier: notifier, DesktopNotifications: true},
		model.NewCard("1", model.CardTypeSession, 2),
		model.NewCard("2", model.CardTypeBreak, 60),
	)
	m = press(t, m, "s")

	updated, cmd := m.Update(TickMsg{At: clock.Advance(2 * time.Second)})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a delayed advance command")
	}
	if m.TodaySessions != 1 || !strings.Contains(m.Status.Text, "Session 1 complete") {
		t.Fatalf("unexpected completion state: today=%d status=%+v", m.TodaySessions, m.Status)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected the desktop notification deferred to a command, got %+v", notifier.sent)
	}
	intent, ok := m.Engine.PendingAdvance()
	if !ok || intent.CardID != "2" {
		t.Fatalf("unexpected pending advance: %+v ok=%v", intent, ok)
	}

	var due *AdvanceDueMsg
	for _, msg := range runCmd(cmd) {
		if d, ok := msg.(AdvanceDueMsg); ok {
			due = &d
		}
	}
	if len(notifier.sent) == 0 || notifier.sent[0].Title != "Timer" {
		t.Fatalf("expected a desktop notification, got %+v", notifier.sent)
	}
	if due == nil || due.Event.CardID != "2" || due.Event.Token != intent.Token {
		t.Fatalf("expected an advance message for card 2, got %+v", due)
	}

	updated, _ = m.Update(*due)
	m = updated.(Model)
	if !m.Engine.IsPlaying() || m.Engine.ActiveID() != "2" {
		t.Fatalf("expected break playing, active=%q", m.Engine.ActiveID())
	}
}

func TestStaleAdvanceIsIgnored(t *testing.T) {
	m, clock := newTestModel(t, Deps{},
		model.NewCard("1", model.CardTypeSession, 1),
		model.NewCard("2", model.CardTypeBreak, 60),
	)
	m = press(t, m, "s")
	updated, _ := m.Update(TickMsg{At: clock.Advance(time.Second)})
	m = updated.(Model)
	intent, _ := m.Engine.PendingAdvance()

	m = press(t, m, "p")
	updated, _ = m.Update(AdvanceDueMsg{Event: scheduler.Event{Kind: scheduler.KindAdvance, CardID: intent.CardID, Token: intent.Token}})
	if updated.(Model).Engine.IsPlaying() {
		t.Fatal("expected the cancelled advance to be dropped")
	}
}

func TestSchedulerHoldsAndCancelsAdvance(t *testing.T) {
	sched := scheduler.NewEngine(4)
	sched.Start()
	t.Cleanup(sched.Stop)

	clock := &testClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	engine := timer.New([]model.Card{
		model.NewCard("1", model.CardTypeSession, 1),
		model.NewCard("2", model.CardTypeBreak, 60),
	}, timer.WithClock(clock.Now), timer.WithSettleDelay(time.Hour))
	m := NewModel(Deps{Engine: engine, Scheduler: sched, Now: time.Now})

	m = press(t, m, "s")
	updated, cmd := m.Update(TickMsg{At: clock.Advance(time.Second)})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected the scheduler to own the advance")
	}
	if sched.Pending() != 1 {
		t.Fatalf("expected one pending wakeup, got %d", sched.Pending())
	}

	m = press(t, m, "p")
	if sched.Pending() != 0 {
		t.Fatalf("expected pending wakeup cancelled, got %d", sched.Pending())
	}
}

func TestDeleteLastCardWarns(t *testing.T) {
	m, _ := newTestModel(t, Deps{}, model.NewCard("1", model.CardTypeSession, 60))
	m = press(t, m, "x")
	if m.Engine.Len() != 1 {
		t.Fatal("expected the deck to keep its last card")
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "Cannot delete card") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestInsertAndSelectionKeys(t *testing.T) {
	m, _ := newTestModel(t, Deps{Preferences: model.Preferences{SessionMinutes: 30, BreakMinutes: 7, DailyGoal: 4}})
	m = press(t, m, "a")
	cards := m.Engine.Cards()
	if len(cards) != 3 || cards[1].ID != "3" || cards[1].Duration != 1800 {
		t.Fatalf("unexpected deck after insert: %+v", cards)
	}
	if m.Engine.SelectedID() != "3" {
		t.Fatalf("expected new card selected, got %q", m.Engine.SelectedID())
	}

	m = press(t, m, "j", "b")
	cards = m.Engine.Cards()
	if cards[3].Type != model.CardTypeBreak || cards[3].Duration != 420 {
		t.Fatalf("unexpected break insert: %+v", cards[3])
	}

	m = press(t, m, "k", "k", "k", "k")
	if m.Engine.SelectedID() != "1" {
		t.Fatalf("expected selection clamped to first card, got %q", m.Engine.SelectedID())
	}
}

func TestAdjustTimeKeys(t *testing.T) {
	m, _ := newTestModel(t, Deps{}, model.NewCard("1", model.CardTypeSession, 90))
	m = press(t, m, "+")
	card, _ := m.Engine.Card("1")
	if card.TimeRemaining != 150 || card.Duration != 150 {
		t.Fatalf("unexpected card after +: %+v", card)
	}
	m = press(t, m, "-", "-", "-")
	card, _ = m.Engine.Card("1")
	if card.TimeRemaining != 0 || !card.IsCompleted {
		t.Fatalf("expected card emptied and completed: %+v", card)
	}
	m = press(t, m, "r")
	card, _ = m.Engine.Card("1")
	if card.TimeRemaining != 150 || card.IsCompleted {
		t.Fatalf("expected reset to duration: %+v", card)
	}
}

func TestTimeEditor(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, "t")
	if !m.TimeEditor.Active || m.timeInput.Value() != "25:00" {
		t.Fatalf("unexpected editor state: %+v value=%q", m.TimeEditor, m.timeInput.Value())
	}

	m.timeInput.SetValue("soon")
	m = press(t, m, "enter")
	if !m.TimeEditor.Active || !m.Status.IsError {
		t.Fatalf("expected editor kept open with error: %+v", m.Status)
	}

	m.timeInput.SetValue("12:30")
	m = press(t, m, "enter")
	card, _ := m.Engine.Card("1")
	if m.TimeEditor.Active || card.TimeRemaining != 750 {
		t.Fatalf("expected 750 remaining, got %d (editor %+v)", card.TimeRemaining, m.TimeEditor)
	}

	m = press(t, m, "t", "esc")
	if m.TimeEditor.Active {
		t.Fatal("expected esc to close the editor")
	}
}

func TestNotesEditingSavesContent(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, "e")
	if m.CurrentView != ViewNotes || !m.Notes.Editing || m.Notes.CardID != "1" {
		t.Fatalf("unexpected notes state: view=%q notes=%+v", m.CurrentView, m.Notes)
	}
	m = press(t, m, "- [ ] write tests")
	m = press(t, m, "esc")
	if m.Notes.Editing {
		t.Fatal("expected editing to stop")
	}
	card, _ := m.Engine.Card("1")
	if card.Content != "- [ ] write tests" {
		t.Fatalf("unexpected content: %q", card.Content)
	}
	if out := m.View(); !strings.Contains(out, "tasks: 0/1 done") {
		t.Fatalf("expected task progress in notes view: %q", out)
	}
}

func TestManualCompletionCarriesTasks(t *testing.T) {
	first := model.NewCard("1", model.CardTypeSession, 1500)
	first.Content = "- [ ] a\n- [x] b"
	m, _ := newTestModel(t, Deps{},
		first,
		model.NewCard("2", model.CardTypeBreak, 300),
		model.NewCard("3", model.CardTypeSession, 1500),
	)
	m = press(t, m, "c")
	if m.Status.Text != "Tasks carried over: 1 task moved to the next session." {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if len(m.Notifications) != 2 || m.Notifications[0].Body != "Session 1 marked complete" {
		t.Fatalf("unexpected notifications: %+v", m.Notifications)
	}
	next, _ := m.Engine.Card("3")
	if !strings.Contains(next.Content, "- [ ] a") {
		t.Fatalf("expected carried task in card 3: %q", next.Content)
	}
}

func TestPaletteAddAndTime(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = runPalette(t, m, "add break 1 10")
	cards := m.Engine.Cards()
	if cards[0].Type != model.CardTypeBreak || cards[0].Duration != 600 {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	if m.Palette.Active || m.Status.IsError {
		t.Fatalf("unexpected palette state: %+v status=%+v", m.Palette, m.Status)
	}

	m = runPalette(t, m, "time 90s")
	card, _ := m.Engine.Card(m.Engine.SelectedID())
	if card.TimeRemaining != 90 {
		t.Fatalf("expected 90 seconds, got %d", card.TimeRemaining)
	}

	m = runPalette(t, m, "bogus")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, "/", "add", "esc")
	if m.Palette.Active || m.Engine.Len() != 2 {
		t.Fatalf("expected palette closed without running: %+v", m.Palette)
	}
}

func TestPalettePreferencesPersist(t *testing.T) {
	repo := openRepo(t)
	m, _ := newTestModel(t, Deps{Repo: repo})

	m = runPalette(t, m, "prefs goal 3")
	m = runPalette(t, m, "prefs advance off")
	if m.Prefs.DailyGoal != 3 || m.Prefs.AutoAdvance {
		t.Fatalf("unexpected prefs: %+v", m.Prefs)
	}
	saved, err := repo.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if saved.DailyGoal != 3 || saved.AutoAdvance {
		t.Fatalf("unexpected saved prefs: %+v", saved)
	}

	m = press(t, m, "s", "c")
	if _, ok := m.Engine.PendingAdvance(); ok {
		t.Fatal("expected auto-advance disabled")
	}
}

func TestPaletteTemplateLifecycle(t *testing.T) {
	repo := openRepo(t)
	m, _ := newTestModel(t, Deps{Repo: repo})

	m = runPalette(t, m, "template save Pair")
	if m.Status.IsError {
		t.Fatalf("save failed: %+v", m.Status)
	}
	if _, err := repo.GetTemplateByName(context.Background(), "pair"); err != nil {
		t.Fatalf("expected saved template: %v", err)
	}

	m = press(t, m, "a", "a")
	m = runPalette(t, m, "template save Pair")
	if m.Status.Text != "updated template Pair" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = press(t, m, "x", "x")
	if m.Engine.Len() != 2 {
		t.Fatalf("expected 2 cards before apply, got %d", m.Engine.Len())
	}

	m = runPalette(t, m, "template apply pair")
	if m.Engine.Len() != 4 || m.Engine.IsPlaying() {
		t.Fatalf("expected 4 paused cards, got %d playing=%v", m.Engine.Len(), m.Engine.IsPlaying())
	}

	m = runPalette(t, m, "template delete pair")
	if _, err := repo.GetTemplateByName(context.Background(), "pair"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected template deleted, got %v", err)
	}
	m = runPalette(t, m, "template apply pair")
	if !m.Status.IsError {
		t.Fatal("expected apply of missing template to fail")
	}
}

func TestPaletteWithoutStorage(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = runPalette(t, m, "template save x")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "storage unavailable") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = runPalette(t, m, "prefs break 9")
	if m.Status.IsError || m.Prefs.BreakMinutes != 9 {
		t.Fatalf("expected in-memory preference change: %+v %+v", m.Status, m.Prefs)
	}
}

func TestTemplatePickerFuzzyFilter(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	updated, _ := m.Update(TemplatesLoadedMsg{Items: []model.Template{
		{ID: "a", Name: "Deep Work", Cards: []model.TemplateCard{{Type: model.CardTypeSession, Minutes: 50}}},
		{ID: "b", Name: "Quick Breaks", Cards: []model.TemplateCard{{Type: model.CardTypeBreak, Minutes: 5}}},
		{ID: "c", Name: "Writing", Cards: []model.TemplateCard{
			{Type: model.CardTypeSession, Minutes: 25},
			{Type: model.CardTypeBreak, Minutes: 5},
		}},
	}})
	m = updated.(Model)
	m = press(t, m, "4")
	if len(m.Templates.Matches) != 3 {
		t.Fatalf("expected all templates listed, got %v", m.Templates.Matches)
	}

	m = press(t, m, "f", "w", "r")
	if m.Templates.Query != "wr" || len(m.Templates.Matches) != 2 {
		t.Fatalf("unexpected filter state: query=%q matches=%v", m.Templates.Query, m.Templates.Matches)
	}
	for _, idx := range m.Templates.Matches {
		if m.Templates.Items[idx].Name == "Quick Breaks" {
			t.Fatal("expected Quick Breaks filtered out")
		}
	}

	m = press(t, m, "esc")
	if m.Templates.Filtering || len(m.Templates.Matches) != 3 {
		t.Fatalf("expected filter cleared: %+v", m.Templates)
	}

	m = press(t, m, "j", "j", "enter")
	if m.CurrentView != ViewDeck || m.Status.Text != "applied template Writing (2 cards)" {
		t.Fatalf("expected Writing applied, view=%q status=%+v", m.CurrentView, m.Status)
	}
}

func TestHistoryLoadedMsg(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	updated, _ := m.Update(HistoryLoadedMsg{
		Entries: []model.HistoryEntry{
			{ID: "h1", CardID: "1", CardType: model.CardTypeSession, DurationSec: 1500, CompletedAt: time.Now()},
		},
		Summaries:     []model.DaySummary{{Date: "2026-03-02", Sessions: 3, FocusSeconds: 4500}},
		TodaySessions: 3,
	})
	m = updated.(Model)
	m = press(t, m, "3")
	out := m.View()
	if !strings.Contains(out, "today: 3/8 sessions") {
		t.Fatalf("expected goal line in output: %q", out)
	}
	if !strings.Contains(out, "2026-03-02") || !strings.Contains(out, "3 sessions") {
		t.Fatalf("expected day summary in output: %q", out)
	}

	updated, _ = m.Update(HistoryLoadedMsg{Err: errors.New("disk gone")})
	if updated.(Model).History.Err != "disk gone" {
		t.Fatal("expected history error recorded")
	}
}

func TestLoadHistoryCmdCountsToday(t *testing.T) {
	repo := openRepo(t)
	now := time.Now()
	ctx := context.Background()
	for i, typ := range []model.CardType{model.CardTypeSession, model.CardTypeBreak, model.CardTypeSession} {
		err := repo.AppendHistory(ctx, model.HistoryEntry{
			ID:          string(rune('a' + i)),
			CardID:      "1",
			CardType:    typ,
			DurationSec: 60,
			CompletedAt: now,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msg := loadHistoryCmd(repo, now)().(HistoryLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("load: %v", msg.Err)
	}
	if msg.TodaySessions != 2 || len(msg.Entries) != 3 {
		t.Fatalf("unexpected history: today=%d entries=%d", msg.TodaySessions, len(msg.Entries))
	}
	if loadHistoryCmd(nil, now) != nil {
		t.Fatal("expected no command without storage")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "set remaining time") {
		t.Fatal("expected deck help in view")
	}
	m = press(t, m, "?")
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"view: Deck", "selected: 1", "status: all good", "25:00", "deck: 2 cards"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestEditingNextSessionKeepsCarriedTasks(t *testing.T) {
	first := model.NewCard("1", model.CardTypeSession, 1)
	first.Content = "- [ ] open item"
	m, clock := newTestModel(t, Deps{},
		first,
		model.NewCard("2", model.CardTypeBreak, 60),
		model.NewCard("3", model.CardTypeSession, 1500),
	)
	m = press(t, m, "s")
	m.Engine.SelectCard("3")
	m = press(t, m, "e", "my note")
	if !m.Notes.Editing || m.Notes.CardID != "3" {
		t.Fatalf("expected editing card 3, got %+v", m.Notes)
	}

	updated, _ := m.Update(TickMsg{At: clock.Advance(time.Second)})
	m = updated.(Model)
	if v := m.notesArea.Value(); !strings.Contains(v, "- [ ] open item") || !strings.Contains(v, "my note") {
		t.Fatalf("expected editor reseeded with carried block, got %q", v)
	}

	m = press(t, m, "esc")
	card, _ := m.Engine.Card("3")
	if !strings.Contains(card.Content, "- [ ] open item") || !strings.Contains(card.Content, "my note") {
		t.Fatalf("expected carried task and note kept, got %q", card.Content)
	}
}

func TestUnsavedEditsOfActiveSessionAreCarried(t *testing.T) {
	m, clock := newTestModel(t, Deps{},
		model.NewCard("1", model.CardTypeSession, 1),
		model.NewCard("2", model.CardTypeSession, 1500),
	)
	m = press(t, m, "s", "e", "- [ ] typed item")

	updated, _ := m.Update(TickMsg{At: clock.Advance(time.Second)})
	m = updated.(Model)
	next, _ := m.Engine.Card("2")
	if got := checklist.UncheckedItems(next.Content); len(got) != 1 || got[0] != "typed item" {
		t.Fatalf("expected typed item carried, got %q", next.Content)
	}
}
