// Package notify shows one transient message at a time.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

const DefaultTimeout = 3 * time.Second

var colors = map[Kind]lipgloss.Color{
	Success: lipgloss.Color("#10b981"),
	Error:   lipgloss.Color("#ef4444"),
	Info:    lipgloss.Color("#3b82f6"),
}

var icons = map[Kind]string{
	Success: "✔",
	Error:   "✖",
	Info:    "ℹ",
}

type Message struct {
	Text string
	Kind Kind
	seq  int
}

// DismissMsg is delivered by Expire once a message has been on screen long enough.
type DismissMsg struct {
	seq int
}

// Center holds the currently visible message. A new Notify replaces it.
type Center struct {
	timeout time.Duration
	current *Message
	seq     int
}

func NewCenter(timeout time.Duration) *Center {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Center{timeout: timeout}
}

func (c *Center) Notify(text string, kind Kind) {
	if _, ok := colors[kind]; !ok {
		kind = Info
	}
	c.seq++
	c.current = &Message{Text: text, Kind: kind, seq: c.seq}
}

// Current returns the visible message, if any.
func (c *Center) Current() (Message, bool) {
	if c.current == nil {
		return Message{}, false
	}
	return *c.current, true
}

// Expire schedules a dismiss for the visible message. It returns nil when nothing is shown.
func (c *Center) Expire() tea.Cmd {
	if c.current == nil {
		return nil
	}
	seq := c.current.seq
	return tea.Tick(c.timeout, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Dismiss clears the message it was scheduled for. Stale dismisses are ignored.
func (c *Center) Dismiss(msg DismissMsg) bool {
	if c.current == nil || c.current.seq != msg.seq {
		return false
	}
	c.current = nil
	return true
}

// Seq identifies the latest notification so callers can tell when a new one arrived.
func (c *Center) Seq() int { return c.seq }

func (c *Center) View() string {
	m, ok := c.Current()
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(colors[m.Kind]).
		Padding(0, 1).
		Render(icons[m.Kind] + " " + m.Text)
}
