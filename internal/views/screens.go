package views

import (
	"fmt"
	"strings"
)

type CardRowData struct {
	Position  int
	ID        string
	Type      string
	Clock     string
	Active    bool
	Selected  bool
	Completed bool
	TaskDone  int
	TaskTotal int
}

type DeckPanelData struct {
	Cards   []CardRowData
	Playing bool
}

type CardDetailData struct {
	ID           string
	Type         string
	Clock        string
	Duration     string
	ProgressView string
	ProgressPct  int
	State        string
	TaskDone     int
	TaskTotal    int
	TimeEditor   string
	NotesPreview string
}

type NotesPanelData struct {
	CardID     string
	CardType   string
	Editing    bool
	EditorView string
	Preview    string
	TaskDone   int
	TaskTotal  int
}

type DaySummaryData struct {
	Date     string
	Sessions int
	Breaks   int
	Focus    string
}

type HistoryPanelData struct {
	TableView    string
	Summaries    []DaySummaryData
	GoalView     string
	GoalDone     int
	GoalTarget   int
	ErrorText    string
	EmptyHistory bool
}

type TemplateRowData struct {
	Name     string
	Cards    int
	Sessions int
	Minutes  int
	Selected bool
}

type TemplatesPanelData struct {
	FilterView string
	Filtering  bool
	Rows       []TemplateRowData
	ErrorText  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDeckPanel(data DeckPanelData) string {
	var b strings.Builder
	state := "paused"
	if data.Playing {
		state = "playing"
	}
	b.WriteString(fmt.Sprintf("deck: %d cards | %s\n", len(data.Cards), state))
	b.WriteString("actions: [space]toggle [s]start [p]pause [r]reset [c]complete [a/b]add [x]delete\n")
	for _, c := range data.Cards {
		cursor := " "
		if c.Selected {
			cursor = ">"
		}
		marker := " "
		switch {
		case c.Active:
			marker = "*"
		case c.Completed:
			marker = "x"
		}
		line := fmt.Sprintf("%s %d. [%s] %-7s %s", cursor, c.Position, marker, c.Type, c.Clock)
		if c.TaskTotal > 0 {
			line += fmt.Sprintf("  tasks %d/%d", c.TaskDone, c.TaskTotal)
		}
		switch {
		case c.Active:
			line = activeStyle.Render(line)
		case c.Completed:
			line = completedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCardDetail(data CardDetailData) string {
	if data.ID == "" {
		return "card:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("card %s (%s)\n", data.ID, data.Type))
	b.WriteString(fmt.Sprintf("state: %s\n", data.State))
	b.WriteString(fmt.Sprintf("remaining: %s of %s\n", data.Clock, data.Duration))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	if data.TaskTotal > 0 {
		b.WriteString(fmt.Sprintf("tasks: %d/%d done\n", data.TaskDone, data.TaskTotal))
	}
	if data.TimeEditor != "" {
		b.WriteString("\nset time: " + data.TimeEditor + "\n")
		b.WriteString("keys: [enter] apply [esc] cancel\n")
	}
	if data.NotesPreview != "" {
		b.WriteString("\nnotes:\n" + data.NotesPreview + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderNotesPanel(data NotesPanelData) string {
	if data.CardID == "" {
		return "notes:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notes for card %s (%s)\n", data.CardID, data.CardType))
	if data.Editing {
		b.WriteString("keys: [esc] save and close [ctrl+s] save\n")
	} else {
		b.WriteString("keys: [e] edit\n")
	}
	if data.TaskTotal > 0 {
		b.WriteString(fmt.Sprintf("tasks: %d/%d done\n", data.TaskDone, data.TaskTotal))
	}
	b.WriteString("\n" + data.EditorView)
	return strings.TrimSpace(b.String())
}

func RenderNotesPreview(preview string) string {
	if strings.TrimSpace(preview) == "" {
		return "preview:\n(empty)"
	}
	return "preview:\n" + preview
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	b.WriteString(fmt.Sprintf("today: %d/%d sessions %s\n", data.GoalDone, data.GoalTarget, data.GoalView))
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
		return strings.TrimSpace(b.String())
	}
	if data.EmptyHistory {
		b.WriteString("(no completed cards yet)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.TableView + "\n")
	return strings.TrimSpace(b.String())
}

func RenderDaySummaries(days []DaySummaryData) string {
	if len(days) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("last days:\n")
	for _, d := range days {
		b.WriteString(fmt.Sprintf("%s  %d sessions  %d breaks  focus %s\n", d.Date, d.Sessions, d.Breaks, d.Focus))
	}
	return strings.TrimSpace(b.String())
}

func RenderTemplatesPanel(data TemplatesPanelData) string {
	var b strings.Builder
	b.WriteString("templates:\n")
	b.WriteString("actions: [f]filter [j/k]move [enter]apply [d]delete\n")
	if data.Filtering || data.FilterView != "" {
		b.WriteString(data.FilterView + "\n")
	}
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("(no templates)")
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s  %d cards, %d sessions, %dm\n", cursor, row.Name, row.Cards, row.Sessions, row.Minutes))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
