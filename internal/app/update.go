package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/widgets"
)

// RefreshMsg triggers a new widget sample.
type RefreshMsg time.Time

// SampleMsg carries a finished widget sample back to the update loop.
type SampleMsg struct {
	Sample widgets.Sample
}

// SettingsChangedMsg signals that the store committed a mutation, possibly
// from outside the update loop.
type SettingsChangedMsg struct {
	Settings dashboard.Settings
}

type notificationExpiredMsg struct {
	id string
}

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, d *Dashboard) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init starts widget sampling and listens for store changes.
func (m *Dashboard) Init() tea.Cmd {
	m.sampling = true
	return tea.Batch(
		SampleCmd(m.sampler),
		RefreshCmd(),
		ListenForChanges(m.changes),
	)
}

// RefreshCmd schedules the next widget refresh.
func RefreshCmd() tea.Cmd {
	return tea.Tick(config.WidgetRefreshInterval, func(t time.Time) tea.Msg {
		return RefreshMsg(t)
	})
}

// SampleCmd collects one widget sample in the background.
func SampleCmd(s *widgets.Sampler) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.WidgetRefreshInterval)
		defer cancel()
		return SampleMsg{Sample: s.Sample(ctx)}
	}
}

// ListenForChanges waits for the next store change notification.
func ListenForChanges(ch chan dashboard.Settings) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return SettingsChangedMsg{Settings: s}
	}
}

// Update handles all incoming messages. Input is delegated to the registered
// input handler.
func (m *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case RefreshMsg:
		cmds := []tea.Cmd{RefreshCmd()}
		if !m.sampling {
			m.sampling = true
			cmds = append(cmds, SampleCmd(m.sampler))
		}
		m.CleanupNotifications()
		return m, tea.Batch(cmds...)

	case SampleMsg:
		m.sampling = false
		m.Board.Update(msg.Sample)
		return m, nil

	case SettingsChangedMsg:
		m.ensureFocus()
		if n := len(msg.Settings.Cards); m.SettingsCursor >= n {
			m.SettingsCursor = max(n-1, 0)
		}
		return m, ListenForChanges(m.changes)

	case notificationExpiredMsg:
		m.removeNotification(msg.id)
		return m, nil
	}

	if inputHandler != nil {
		return inputHandler(msg, m)
	}
	return m, nil
}
