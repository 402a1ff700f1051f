package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// notify records n in the notification log. The desktop copy, when enabled,
// is sent by the returned command off the update loop.
func (m *Model) notify(title, body, level string) tea.Cmd {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if !m.DesktopEnabled || m.notifier == nil {
		return nil
	}
	return desktopNotifyCmd(m.notifier, n, m.logger)
}

func desktopNotifyCmd(notifier DesktopNotifier, n Notification, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := notifier.Send(n); err != nil {
			logger.Debug("desktop notification failed", "title", n.Title, "err", err)
		}
		return nil
	}
}
