package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusdeck/internal/commands"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	m.commandInput, _ = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	var cmds []tea.Cmd
	res, err := commands.Run(raw, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			id := m.insertCard(a.Type, a.Position, a.Minutes)
			if id == "" {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "card was not added"}
			}
			return commands.Result{Message: fmt.Sprintf("added %s card %s", a.Type, id)}, nil
		},
		Time: func(a commands.TimeArgs) (commands.Result, error) {
			card, ok := m.selectedCard()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no card selected"}
			}
			m.Engine.UpdateCardTime(card.ID, a.Seconds)
			return commands.Result{Message: fmt.Sprintf("card %s set to %s", card.ID, commands.FormatClock(a.Seconds))}, nil
		},
		Template: func(a commands.TemplateArgs) (commands.Result, error) {
			switch a.Action {
			case commands.TemplateApply:
				if err := m.applyTemplateByName(a.Name); err != nil {
					return commands.Result{}, err
				}
				m.CurrentView = ViewDeck
				return commands.Result{Message: m.Status.Text}, nil
			case commands.TemplateSave:
				updated, err := m.saveTemplate(a.Name)
				if err != nil {
					return commands.Result{}, err
				}
				cmds = append(cmds, loadTemplatesCmd(m.Repo))
				if updated {
					return commands.Result{Message: fmt.Sprintf("updated template %s", a.Name)}, nil
				}
				return commands.Result{Message: fmt.Sprintf("saved template %s", a.Name)}, nil
			case commands.TemplateDelete:
				if err := m.deleteTemplate(a.Name); err != nil {
					return commands.Result{}, err
				}
				cmds = append(cmds, loadTemplatesCmd(m.Repo))
				return commands.Result{Message: fmt.Sprintf("deleted template %s", a.Name)}, nil
			default:
				m.CurrentView = ViewTemplates
				cmds = append(cmds, loadTemplatesCmd(m.Repo))
				return commands.Result{Message: "templates"}, nil
			}
		},
		Prefs: func(a commands.PrefsArgs) (commands.Result, error) {
			return m.applyPreference(a)
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		cmds = append(cmds, m.notify("Command Failed", err.Error(), "error"))
	} else {
		m.Status = StatusBar{Text: res.Message}
		cmds = append(cmds, m.notify("Command", res.Message, "info"))
	}
	cmds = append(cmds, m.afterEngine())
	return m, tea.Batch(cmds...)
}

// applyPreference updates one preference, persists the set and pushes the
// change into the engine and the chime.
func (m *Model) applyPreference(a commands.PrefsArgs) (commands.Result, error) {
	next := m.Prefs
	var msg string
	switch a.Key {
	case commands.PrefSession:
		next.SessionMinutes = a.Int
		msg = fmt.Sprintf("new sessions default to %dm", a.Int)
	case commands.PrefBreak:
		next.BreakMinutes = a.Int
		msg = fmt.Sprintf("new breaks default to %dm", a.Int)
	case commands.PrefGoal:
		next.DailyGoal = a.Int
		msg = fmt.Sprintf("daily goal set to %d sessions", a.Int)
	case commands.PrefAdvance:
		next.AutoAdvance = a.Bool
		msg = "auto-advance " + onOff(a.Bool)
	case commands.PrefSound:
		next.SoundEnabled = a.Bool
		msg = "completion sound " + onOff(a.Bool)
	}
	if err := next.Validate(); err != nil {
		return commands.Result{}, err
	}
	next.UpdatedAt = m.now().UTC()
	if m.Repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		if err := m.Repo.SavePreferences(ctx, next); err != nil {
			return commands.Result{}, fmt.Errorf("save preferences: %w", err)
		}
	}
	m.Prefs = next
	m.Engine.SetAutoAdvance(next.AutoAdvance)
	if m.chime != nil {
		m.chime.SetEnabled(next.SoundEnabled)
	}
	return commands.Result{Message: msg}, nil
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
