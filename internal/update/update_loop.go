package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadHistoryCmd(m.Repo, m.now()),
		loadTemplatesCmd(m.Repo),
	}
	if m.Ticker != nil {
		cmds = append(cmds, waitForTickCmd(m.Ticker.C()))
	}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForAdvanceCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.TimeEditor.Active {
			return m.handleTimeEditorKey(typed)
		}
		if m.Notes.Editing {
			return m.handleNotesEditKey(typed)
		}
		if m.Templates.Filtering {
			return m.handleTemplateFilterKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Deck:
			m.CurrentView = ViewDeck
			return m, nil
		case m.Keys.Notes:
			m.CurrentView = ViewNotes
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			return m, loadHistoryCmd(m.Repo, m.now())
		case m.Keys.Templates:
			m.CurrentView = ViewTemplates
			return m, loadTemplatesCmd(m.Repo)
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			return m.quit()
		}

		switch m.CurrentView {
		case ViewDeck:
			return m.handleDeckKey(typed)
		case ViewNotes:
			return m.handleNotesKey(typed)
		case ViewHistory:
			return m.handleHistoryKey(typed)
		case ViewTemplates:
			return m.handleTemplatesKey(typed)
		}
	case TickMsg:
		m.flushNotes()
		m.Engine.Tick(typed.At)
		cmd := m.afterEngine()
		if m.Ticker != nil {
			return m, tea.Batch(cmd, waitForTickCmd(m.Ticker.C()))
		}
		return m, cmd
	case AdvanceDueMsg:
		m.flushNotes()
		m.resumeAdvance(typed.Event)
		cmd := m.afterEngine()
		if typed.viaScheduler && m.Scheduler != nil {
			return m, tea.Batch(cmd, waitForAdvanceCmd(m.Scheduler.C()))
		}
		return m, cmd
	case HistoryLoadedMsg:
		m.applyHistory(typed)
		return m, nil
	case TemplatesLoadedMsg:
		m.applyTemplates(typed)
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewDeck:
		leftPane = m.renderDeckView()
		rightPane = m.renderCardDetail()
	case ViewNotes:
		leftPane = m.renderNotesView()
		rightPane = views.RenderNotesPreview(m.previewPort.View())
	case ViewHistory:
		leftPane = m.renderHistoryView()
		rightPane = m.renderDaySummaries()
	case ViewTemplates:
		leftPane = m.renderTemplatesView()
	}
	if m.Palette.Active {
		rightPane = joinNonEmpty(rightPane, m.renderCommandPalette())
	}
	rightPane = joinNonEmpty(rightPane, m.renderHelpIfVisible())

	return views.RenderApp(views.AppData{
		Header:       m.header(),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s deck | %s notes | %s history | %s templates | / cmd | %s help | %s quit",
			m.Keys.Deck, m.Keys.Notes, m.Keys.History, m.Keys.Templates, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) header() string {
	state := "paused"
	if m.Engine.IsPlaying() {
		state = "playing"
	}
	return fmt.Sprintf("focusdeck | view: %s | %s | selected: %s | today: %d/%d",
		m.CurrentView, state, m.Engine.SelectedID(), m.TodaySessions, m.Prefs.DailyGoal)
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.Notes.Editing {
		m.saveNotes()
		m.Notes.Editing = false
	}
	if m.Ticker != nil {
		m.Ticker.Stop()
	}
	m.Quitting = true
	return m, tea.Quit
}

func isKnownView(v View) bool {
	switch v {
	case ViewDeck, ViewNotes, ViewHistory, ViewTemplates:
		return true
	default:
		return false
	}
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timeInput = textinput.New()
	m.timeInput.Prompt = "time> "
	m.timeInput.Placeholder = "mm:ss"
	m.timeInput.CharLimit = 12
	m.timeInput.Width = 12

	m.filterInput = textinput.New()
	m.filterInput.Prompt = "filter> "
	m.filterInput.CharLimit = 64
	m.filterInput.Width = 40

	m.notesArea = textarea.New()
	m.notesArea.SetWidth(54)
	m.notesArea.SetHeight(14)
	m.notesArea.ShowLineNumbers = false
	m.notesArea.Placeholder = "Card notes (markdown, - [ ] for tasks)"

	m.cardProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.goalProgress = progress.New(progress.WithSolidFill("10"), progress.WithWidth(20))

	cols := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Type", Width: 8},
		{Title: "Card", Width: 6},
		{Title: "Length", Width: 8},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	m.previewPort = viewport.New(54, 16)
	m.helpModel = help.New()
}

// syncBubbleData copies engine and view state into the bubbles widgets.
func (m *Model) syncBubbleData() {
	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}
	if !m.TimeEditor.Active {
		m.timeInput.Blur()
	}

	content := ""
	if card, ok := m.selectedCard(); ok {
		content = card.Content
	}
	if !m.Notes.Editing && m.previewContent != content {
		m.previewContent = content
		m.previewPort.SetContent(views.RenderMarkdown(content, m.previewPort.Width))
	}

	rows := make([]table.Row, 0, len(m.History.Entries))
	for _, e := range m.History.Entries {
		rows = append(rows, table.Row{
			e.CompletedAt.Local().Format("01-02 15:04"),
			string(e.CardType),
			e.CardID,
			formatMinutes(e.DurationSec),
		})
	}
	m.historyTable.SetRows(rows)
}

func waitForTickCmd(ch <-chan time.Time) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		at, ok := <-ch
		if !ok {
			return nil
		}
		return TickMsg{At: at}
	}
}

func waitForAdvanceCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AdvanceDueMsg{Event: ev, viaScheduler: true}
	}
}
