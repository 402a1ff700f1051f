package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := m.bindingsFor(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Deck, Action: "deck"},
		{Key: m.Keys.Notes, Action: "notes"},
		{Key: m.Keys.History, Action: "history"},
		{Key: m.Keys.Templates, Action: "templates"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDeck:
		return []KeyBinding{
			{Key: "space", Action: "start/pause"},
			{Key: "s/p", Action: "start selected / pause"},
			{Key: "r/c", Action: "reset / complete selected"},
			{Key: "a/b", Action: "add session / break after selection"},
			{Key: "x", Action: "delete selected"},
			{Key: "j/k", Action: "move selection"},
			{Key: "+/-", Action: "add / remove a minute"},
			{Key: "t", Action: "set remaining time"},
			{Key: "e", Action: "edit notes"},
		}
	case ViewNotes:
		return []KeyBinding{
			{Key: "e", Action: "edit notes of selected card"},
			{Key: "esc", Action: "save and stop editing"},
			{Key: "ctrl+s", Action: "save while editing"},
			{Key: "j/k", Action: "move selection"},
		}
	case ViewHistory:
		return []KeyBinding{
			{Key: "j/k", Action: "scroll history"},
			{Key: "R", Action: "reload"},
		}
	case ViewTemplates:
		return []KeyBinding{
			{Key: "f", Action: "fuzzy filter"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "enter", Action: "apply template"},
			{Key: "d", Action: "delete template"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) bindingsFor(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
