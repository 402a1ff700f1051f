package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

// loadHistoryCmd reads the last week of history in the local time zone.
func loadHistoryCmd(repo storage.Repository, now time.Time) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		today := startOfDay(now)
		from := today.AddDate(0, 0, -(historyDays - 1))
		to := today.AddDate(0, 0, 1)
		entries, err := repo.ListHistory(ctx, storage.HistoryFilter{From: from, To: to, Limit: historyLimit})
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		summaries, err := repo.SummarizeHistory(ctx, from, to)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		msg := HistoryLoadedMsg{Entries: entries, Summaries: summaries}
		key := today.Format(model.DayLayout)
		for _, s := range summaries {
			if s.Date == key {
				msg.TodaySessions = s.Sessions
			}
		}
		return msg
	}
}

func (m *Model) applyHistory(msg HistoryLoadedMsg) {
	if msg.Err != nil {
		m.History.Err = msg.Err.Error()
		m.logger.Warn("load history failed", "err", msg.Err)
		return
	}
	m.History = HistoryState{
		Entries:   msg.Entries,
		Summaries: msg.Summaries,
		Loaded:    true,
	}
	m.TodaySessions = msg.TodaySessions
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "R" {
		m.Status = StatusBar{Text: "reloading history"}
		return m, loadHistoryCmd(m.Repo, m.now())
	}
	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	return m, cmd
}

func (m Model) renderHistoryView() string {
	done, goal := m.TodaySessions, m.Prefs.DailyGoal
	data := views.HistoryPanelData{
		TableView:    m.historyTable.View(),
		GoalDone:     done,
		GoalTarget:   goal,
		GoalView:     m.goalProgress.ViewAs(model.GoalProgress(goal, done)),
		ErrorText:    m.History.Err,
		EmptyHistory: len(m.History.Entries) == 0,
	}
	if m.Repo == nil {
		data.ErrorText = "storage unavailable"
	}
	return views.RenderHistoryPanel(data)
}

func (m Model) renderDaySummaries() string {
	days := make([]views.DaySummaryData, 0, len(m.History.Summaries))
	for i := len(m.History.Summaries) - 1; i >= 0; i-- {
		s := m.History.Summaries[i]
		days = append(days, views.DaySummaryData{
			Date:     s.Date,
			Sessions: s.Sessions,
			Breaks:   s.Breaks,
			Focus:    formatMinutes(s.FocusSeconds),
		})
	}
	return views.RenderDaySummaries(days)
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
