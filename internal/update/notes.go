package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/checklist"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) handleNotesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "e", "enter":
		m.startNotesEdit()
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	default:
		var cmd tea.Cmd
		m.previewPort, cmd = m.previewPort.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleNotesEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.saveNotes()
		m.Notes = NotesState{}
		m.notesArea.Blur()
		return m, m.afterEngine()
	case "ctrl+s":
		m.saveNotes()
		return m, m.afterEngine()
	}
	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	return m, cmd
}

func (m *Model) startNotesEdit() {
	card, ok := m.selectedCard()
	if !ok {
		return
	}
	m.Notes = NotesState{Editing: true, CardID: card.ID}
	m.notesArea.SetValue(card.Content)
	m.notesArea.Focus()
	m.Status = StatusBar{Text: fmt.Sprintf("editing notes for card %s", card.ID)}
}

// saveNotes writes the editor text back to the card being edited. The card may
// have been deleted meanwhile, in which case the engine ignores the update.
func (m *Model) saveNotes() {
	if !m.Notes.Editing || m.Notes.CardID == "" {
		return
	}
	m.Engine.UpdateCardContent(m.Notes.CardID, m.notesArea.Value())
	m.Status = StatusBar{Text: fmt.Sprintf("notes saved for card %s", m.Notes.CardID)}
}

// flushNotes pushes unsaved editor text into the engine ahead of a transition
// that may complete a card, so carry-over reads what the user typed.
func (m *Model) flushNotes() {
	if !m.Notes.Editing || m.Notes.CardID == "" {
		return
	}
	m.Engine.UpdateCardContent(m.Notes.CardID, m.notesArea.Value())
}

// reseedNotes reloads the editor when the engine changed the content of the
// card being edited.
func (m *Model) reseedNotes(cardID string) {
	if !m.Notes.Editing || m.Notes.CardID != cardID {
		return
	}
	if card, ok := m.Engine.Card(cardID); ok {
		m.notesArea.SetValue(card.Content)
	}
}

func (m Model) renderNotesView() string {
	id := m.Engine.SelectedID()
	if m.Notes.Editing {
		id = m.Notes.CardID
	}
	card, ok := m.Engine.Card(id)
	if !ok {
		return views.RenderNotesPanel(views.NotesPanelData{})
	}
	content := card.Content
	if m.Notes.Editing {
		content = m.notesArea.Value()
	}
	done, total := checklist.Progress(content)
	editor := content
	if m.Notes.Editing {
		editor = m.notesArea.View()
	} else if editor == "" {
		editor = "(no notes)"
	}
	return views.RenderNotesPanel(views.NotesPanelData{
		CardID:     card.ID,
		CardType:   string(card.Type),
		Editing:    m.Notes.Editing,
		EditorView: editor,
		TaskDone:   done,
		TaskTotal:  total,
	})
}
