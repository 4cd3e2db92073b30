package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastLifetime = 4 * time.Second

type toastLevel int

const (
	toastLevelInfo toastLevel = iota
	toastLevelError
)

// toast is a transient notice. Errors are never fatal in this client; the
// worst a failed request gets is one of these.
type toast struct {
	id    int
	text  string
	level toastLevel
}

type toastExpiredMsg struct{ id int }

func (m *Model) pushToast(text string, level toastLevel) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toast{id: id, text: text, level: level})
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) expireToast(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	out := ""
	for _, t := range m.toasts {
		style := toastInfo
		if t.level == toastLevelError {
			style = toastError
		}
		out += style.Render(t.text) + "\n"
	}
	return out
}
