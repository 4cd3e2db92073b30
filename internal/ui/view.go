package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matcha-app/matcha-tui/internal/engine"
	"github.com/matcha-app/matcha-tui/internal/fame"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.offline {
		b.WriteString(dialogStyle.Render(
			errorStyle.Render("server unreachable") + "\n\n" +
				"The backend is not answering.\n\n" +
				helpStyle.Render("r retry · q quit")))
		b.WriteString("\n")
		b.WriteString(m.renderToasts())
		return b.String()
	}

	switch m.page {
	case pageBrowse:
		b.WriteString(m.viewBrowse())
	case pageMatch:
		b.WriteString(m.viewMatch())
	case pageChat:
		b.WriteString(m.viewChat())
	case pageMe:
		b.WriteString(m.viewMe())
	}

	b.WriteString("\n")
	b.WriteString(m.renderToasts())
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(pageNames))
	for i, name := range pageNames {
		style := tabStyle
		if page(i) == m.page {
			style = tabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, name)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewBrowse() string {
	var b strings.Builder
	if m.loadingBrowse {
		b.WriteString(m.spin.View() + " loading profiles...\n")
		return b.String()
	}
	if m.loadingPool {
		b.WriteString(m.spin.View() + " drafting your pool...\n")
		return b.String()
	}
	if len(m.profiles) == 0 {
		b.WriteString(mutedStyle.Render("nobody around right now") + "\n")
	}
	for i, p := range m.profiles {
		marker := "  "
		if i == m.cursor {
			marker = titleStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-18s %2d  %-14s %s\n",
			marker, p.DisplayName(), p.Age, fame.Label(p.FameRating), presenceOf(p)))
	}
	b.WriteString(helpStyle.Render("↑/↓ move · l like · m start match · g refresh · q quit"))
	return b.String()
}

func (m *Model) viewMatch() string {
	state := m.snap.State
	var b strings.Builder

	switch state.Phase {
	case engine.PhaseDrafting:
		b.WriteString(titleStyle.Render(fmt.Sprintf("Round %d of %d", state.Round, engine.FinalRound)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  · %d left in the pool", engine.Remaining(state))))
		b.WriteString("\n\n")
		b.WriteString(m.renderBoard())
		b.WriteString("\n")
		help := "←/→ move · enter keep · e snooze"
		if state.KeptID != 0 {
			help = "←/→ move · enter keep · s still top · e snooze"
		}
		b.WriteString(helpStyle.Render(help))

	case engine.PhaseFinalChoice:
		b.WriteString(dialogStyle.Render(
			titleStyle.Render("Final choice") + "\n" +
				"This is round 5. Pick the one — a like goes out.\n\n" +
				m.renderBoard() + "\n" +
				helpStyle.Render("←/→ move · enter pick · e snooze")))

	case engine.PhaseComplete:
		b.WriteString(titleStyle.Render("Session complete") + "\n\n")
		if kept, ok := engine.KeptProfile(state); ok {
			b.WriteString(renderCard(kept, cardKept))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("b back to browse"))

	case engine.PhaseAborted:
		b.WriteString(mutedStyle.Render("session abandoned, nothing was sent") + "\n")
		b.WriteString(helpStyle.Render("b back to browse"))

	default:
		b.WriteString(mutedStyle.Render("no match session running") + "\n")
		b.WriteString(helpStyle.Render("press m on the browse page to start one"))
	}
	return b.String()
}

func (m *Model) renderBoard() string {
	state := m.snap.State
	cards := make([]string, 0, len(state.Board))
	for i, p := range state.Board {
		style := cardStyle
		if p.ID == state.KeptID {
			style = cardKept
		}
		if i == m.cursor {
			style = cardSelected
		}
		cards = append(cards, renderCard(p, style))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) viewChat() string {
	var b strings.Builder
	if len(m.conns) == 0 {
		b.WriteString(mutedStyle.Render("no connections yet — a mutual like unlocks chat") + "\n")
		b.WriteString(helpStyle.Render("g refresh"))
		return b.String()
	}

	for i, c := range m.conns {
		marker := "  "
		if i == m.connCursor {
			marker = titleStyle.Render("> ")
		}
		status := mutedStyle.Render("○")
		if c.IsOnline {
			status = onlineStyle.Render("●")
		} else if !c.LastSeen.IsZero() {
			status = mutedStyle.Render("○ " + humanize.Time(c.LastSeen))
		}
		active := ""
		if c.UserID == m.activePeer {
			active = titleStyle.Render(" (open)")
		}
		b.WriteString(fmt.Sprintf("%s%-16s %s%s\n", marker, c.FirstName, status, active))
	}
	b.WriteString("\n")

	if m.activePeer != 0 {
		if len(m.messages) == 0 {
			b.WriteString(mutedStyle.Render("say hi!") + "\n")
		}
		for _, msg := range m.messages {
			who := "them"
			if msg.SenderID == m.me.ID {
				who = "you"
			}
			line := fmt.Sprintf("%s: %s", who, msg.Content)
			if msg.Pending {
				line += mutedStyle.Render(" …")
			}
			b.WriteString(line + "\n")
		}
		if m.typing {
			b.WriteString("\n" + m.input.View() + "\n")
		}
	}
	b.WriteString(helpStyle.Render("↑/↓ move · enter open · i write · esc stop · g refresh"))
	return b.String()
}

func (m *Model) viewMe() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s, %d", m.me.FirstName, m.me.LastName, m.me.Age)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", fame.Label(m.me.FameRating), fame.Bar(m.me.FameRating, 20)))
	b.WriteString(mutedStyle.Render(m.me.Location) + "\n\n")
	if m.editing {
		b.WriteString("bio: " + m.input.View() + "\n")
	} else {
		b.WriteString(m.me.Biography + "\n")
	}
	if len(m.tags) > 0 {
		names := make([]string, len(m.tags))
		for i, t := range m.tags {
			names[i] = "#" + t.Name
		}
		b.WriteString(mutedStyle.Render(strings.Join(names, " ")) + "\n")
	}
	b.WriteString(helpStyle.Render("e edit bio · g refresh"))
	return b.String()
}
