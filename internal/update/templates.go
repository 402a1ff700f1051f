package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

var errNoStorage = errors.New("storage unavailable")

func loadTemplatesCmd(repo storage.Repository) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		items, err := repo.ListTemplates(ctx, storage.TemplateListFilter{})
		return TemplatesLoadedMsg{Items: items, Err: err}
	}
}

func (m *Model) applyTemplates(msg TemplatesLoadedMsg) {
	if msg.Err != nil {
		m.Templates.Err = msg.Err.Error()
		m.logger.Warn("load templates failed", "err", msg.Err)
		return
	}
	m.Templates.Items = msg.Items
	m.Templates.Err = ""
	m.applyTemplateFilter()
}

// applyTemplateFilter ranks templates by fuzzy match on their names. An empty
// query keeps the stored order.
func (m *Model) applyTemplateFilter() {
	items := m.Templates.Items
	if m.Templates.Query == "" {
		m.Templates.Matches = make([]int, len(items))
		for i := range items {
			m.Templates.Matches[i] = i
		}
	} else {
		names := make([]string, len(items))
		for i, t := range items {
			names[i] = t.Name
		}
		matches := fuzzy.Find(m.Templates.Query, names)
		m.Templates.Matches = make([]int, len(matches))
		for i, match := range matches {
			m.Templates.Matches[i] = match.Index
		}
	}
	if m.Templates.Cursor >= len(m.Templates.Matches) {
		m.Templates.Cursor = max(0, len(m.Templates.Matches)-1)
	}
}

func (m Model) currentTemplate() (model.Template, bool) {
	if m.Templates.Cursor < 0 || m.Templates.Cursor >= len(m.Templates.Matches) {
		return model.Template{}, false
	}
	return m.Templates.Items[m.Templates.Matches[m.Templates.Cursor]], true
}

func (m Model) handleTemplatesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		m.Templates.Filtering = true
		m.filterInput.SetValue(m.Templates.Query)
		m.filterInput.CursorEnd()
		m.filterInput.Focus()
	case "j", "down":
		if m.Templates.Cursor < len(m.Templates.Matches)-1 {
			m.Templates.Cursor++
		}
	case "k", "up":
		if m.Templates.Cursor > 0 {
			m.Templates.Cursor--
		}
	case "enter":
		tpl, ok := m.currentTemplate()
		if !ok {
			return m, nil
		}
		m.applyTemplate(tpl)
		m.CurrentView = ViewDeck
		return m, m.afterEngine()
	case "d":
		tpl, ok := m.currentTemplate()
		if !ok {
			return m, nil
		}
		if err := m.deleteTemplate(tpl.Name); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted template %s", tpl.Name)}
		return m, loadTemplatesCmd(m.Repo)
	}
	return m, nil
}

func (m Model) handleTemplateFilterKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Templates.Filtering = false
		m.Templates.Query = ""
		m.filterInput.SetValue("")
		m.filterInput.Blur()
	case "enter":
		m.Templates.Filtering = false
		m.filterInput.Blur()
	default:
		m.filterInput, _ = m.filterInput.Update(msg)
		m.Templates.Query = m.filterInput.Value()
	}
	m.applyTemplateFilter()
	return m
}

func (m *Model) applyTemplate(tpl model.Template) {
	m.Engine.SetCards(tpl.Build())
	m.Status = StatusBar{Text: fmt.Sprintf("applied template %s (%d cards)", tpl.Name, len(tpl.Cards))}
}

func (m *Model) applyTemplateByName(name string) error {
	if m.Repo == nil {
		return errNoStorage
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	tpl, err := m.Repo.GetTemplateByName(ctx, name)
	if err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	m.applyTemplate(tpl)
	return nil
}

// saveTemplate captures the current deck under name, replacing the cards of an
// existing template with the same name.
func (m *Model) saveTemplate(name string) (bool, error) {
	if m.Repo == nil {
		return false, errNoStorage
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	tpl := model.TemplateFromCards(name, m.Engine.Cards())
	now := m.now().UTC()
	existing, err := m.Repo.GetTemplateByName(ctx, name)
	switch {
	case err == nil:
		tpl.ID = existing.ID
		tpl.Name = existing.Name
		tpl.CreatedAt = existing.CreatedAt
		tpl.UpdatedAt = now
		return true, m.Repo.UpdateTemplate(ctx, tpl)
	case errors.Is(err, storage.ErrNotFound):
		tpl.ID = uuid.NewString()
		tpl.CreatedAt = now
		tpl.UpdatedAt = now
		return false, m.Repo.CreateTemplate(ctx, tpl)
	default:
		return false, err
	}
}

func (m *Model) deleteTemplate(name string) error {
	if m.Repo == nil {
		return errNoStorage
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	tpl, err := m.Repo.GetTemplateByName(ctx, name)
	if err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	return m.Repo.DeleteTemplate(ctx, tpl.ID)
}

func (m Model) renderTemplatesView() string {
	rows := make([]views.TemplateRowData, 0, len(m.Templates.Matches))
	for i, idx := range m.Templates.Matches {
		tpl := m.Templates.Items[idx]
		row := views.TemplateRowData{Name: tpl.Name, Cards: len(tpl.Cards), Selected: i == m.Templates.Cursor}
		for _, c := range tpl.Cards {
			if c.Type == model.CardTypeSession {
				row.Sessions++
			}
			row.Minutes += c.Minutes
		}
		rows = append(rows, row)
	}
	data := views.TemplatesPanelData{
		Filtering: m.Templates.Filtering,
		Rows:      rows,
		ErrorText: m.Templates.Err,
	}
	if m.Templates.Filtering || m.Templates.Query != "" {
		data.FilterView = m.filterInput.View()
	}
	if m.Repo == nil {
		data.ErrorText = errNoStorage.Error()
	}
	return views.RenderTemplatesPanel(data)
}
