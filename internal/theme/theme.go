// Package theme keeps the light/dark preference and the styles that go with it.
package theme

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

const (
	Light = "light"
	Dark  = "dark"
)

type Store interface {
	LoadTheme() (string, error)
	SaveTheme(string) error
}

// Styles is the palette the UI draws with.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
	Overdue   lipgloss.Style
	Muted     lipgloss.Style
	Priority  map[string]lipgloss.Style
	Box       lipgloss.Style
}

type Manager struct {
	store Store
	log   *slog.Logger
	name  string
}

// Load reads the saved preference. Missing or unknown values mean light.
func Load(store Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{store: store, log: log, name: Light}
	v, err := store.LoadTheme()
	if err != nil {
		log.Warn("load theme", "err", err)
	}
	if v == Dark {
		m.name = Dark
	}
	return m
}

func (m *Manager) Name() string { return m.name }

// Toggle flips the theme and saves it. A failed save keeps the new theme for this session.
func (m *Manager) Toggle() string {
	if m.name == Dark {
		m.name = Light
	} else {
		m.name = Dark
	}
	if err := m.store.SaveTheme(m.name); err != nil {
		m.log.Error("save theme", "err", err, "theme", m.name)
	}
	return m.name
}

// Icon is the indicator for switching away from the current theme.
func (m *Manager) Icon() string {
	if m.name == Dark {
		return "☀"
	}
	return "☾"
}

func (m *Manager) Styles() Styles {
	fg, muted, accent, box := "#1f2937", "#6b7280", "#6366f1", "#d1d5db"
	if m.name == Dark {
		fg, muted, accent, box = "#f3f4f6", "#9ca3af", "#818cf8", "#374151"
	}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fg)),
		Completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color(muted)),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		Priority: map[string]lipgloss.Style{
			"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		},
		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(box)).
			Padding(0, 1),
	}
}
