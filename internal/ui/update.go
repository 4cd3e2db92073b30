package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matcha-app/matcha-tui/internal/engine"
	"github.com/matcha-app/matcha-tui/internal/reconcile"
	"github.com/matcha-app/matcha-tui/internal/session"
	"github.com/matcha-app/matcha-tui/internal/types"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.FocusMsg:
		m.polls.Resume()
		return m, nil

	case tea.BlurMsg:
		m.polls.Pause()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case snapshotMsg:
		return m.handleSnapshot(msg.snap)

	case browseResultMsg:
		m.loadingBrowse = false
		if msg.err != nil {
			return m, m.pushToast("could not load profiles", toastLevelError)
		}
		m.profiles = msg.profiles
		if m.cursor >= len(m.profiles) {
			m.cursor = 0
		}
		return m, nil

	case poolResultMsg:
		m.loadingPool = false
		if msg.err != nil || len(msg.profiles) == 0 {
			// The session never starts on a failed draft; the user stays in
			// browse mode and may simply try again.
			return m, m.pushToast("could not start a match session", toastLevelError)
		}
		m.sess.Inbox() <- session.FromUI{Cmd: engine.Command{Type: engine.CmdStartMatch, Pool: msg.profiles}}
		return m, nil

	case likeResultMsg:
		if msg.err != nil {
			return m, m.pushToast("like failed", toastLevelError)
		}
		return m, m.pushToast("liked "+msg.name, toastLevelInfo)

	case connectionsMsg:
		if msg.err == nil {
			m.conns = msg.conns
			if m.connCursor >= len(m.conns) {
				m.connCursor = 0
			}
		}
		return m, nil

	case chatHistoryMsg:
		if msg.err != nil {
			return m, m.pushToast("could not load conversation", toastLevelError)
		}
		if msg.peerID == m.activePeer {
			m.messages = msg.msgs
		}
		return m, nil

	case sendResultMsg:
		return m.handleSendResult(msg)

	case profileMsg:
		if msg.err != nil {
			return m, m.pushToast("could not load profile", toastLevelError)
		}
		m.me = msg.profile
		m.tags = msg.tags
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			return m, m.pushToast("profile update failed", toastLevelError)
		}
		return m, m.pushToast("profile saved", toastLevelInfo)

	case retryResultMsg:
		if msg.err != nil {
			return m, m.pushToast("still offline", toastLevelError)
		}
		// The detector clears itself on any answered request; OfflineMsg
		// follows through Program.Send.
		return m, nil

	case NotificationsMsg:
		return m.handleNotifications(msg.Items)

	case MessagesMsg:
		if msg.PeerID == m.activePeer && reconcile.Changed(m.messages, msg.Items) {
			m.messages = reconcile.Messages(m.messages, msg.Items)
		}
		return m, nil

	case ProfileRefreshMsg:
		if !m.editing {
			m.me = msg.Profile
		}
		return m, nil

	case OfflineMsg:
		m.offline = msg.Down
		if msg.Down {
			return m, nil
		}
		return m, m.pushToast("back online", toastLevelInfo)
	}

	if m.typing || m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleSnapshot(snap session.Snapshot) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitSnapshot()}
	if snap.Err != "" {
		cmds = append(cmds, m.pushToast(snap.Err, toastLevelError))
	}

	prev := m.snap
	m.snap = snap

	switch snap.State.Phase {
	case engine.PhaseDrafting, engine.PhaseFinalChoice:
		m.page = pageMatch
		m.cursor = 0
	case engine.PhaseComplete:
		if prev.State.Phase != engine.PhaseComplete {
			if kept, ok := engine.KeptProfile(snap.State); ok {
				cmds = append(cmds, m.pushToast("you picked "+kept.FirstName+"!", toastLevelInfo))
			}
		}
	case engine.PhaseAborted:
		m.page = pageBrowse
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSendResult(msg sendResultMsg) (tea.Model, tea.Cmd) {
	if msg.peerID != m.activePeer {
		return m, nil
	}
	// Swap the optimistic stub for the stored copy, or drop it on failure.
	kept := m.messages[:0]
	for _, item := range m.messages {
		if item.Pending && item.Content == msg.content {
			continue
		}
		kept = append(kept, item)
	}
	m.messages = kept
	if msg.err != nil {
		return m, m.pushToast("message not sent", toastLevelError)
	}
	m.messages = append(m.messages, msg.stored)
	return m, nil
}

func (m *Model) handleNotifications(items []types.Notification) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, n := range items {
		if n.Read || m.notifSeen[n.ID] {
			continue
		}
		m.notifSeen[n.ID] = true
		cmds = append(cmds, m.pushToast(n.Message, toastLevelInfo))
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The offline modal traps everything except retry and quit.
	if m.offline {
		switch key {
		case "r":
			return m, m.retryBackend()
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.typing || m.editing {
		return m.handleTypingKey(msg)
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		if m.page != pageMatch {
			m.page = pageBrowse
			return m, nil
		}
	case "2":
		if m.page != pageMatch && m.matchRunning() {
			m.page = pageMatch
			return m, nil
		}
	case "3":
		if m.page != pageMatch {
			m.page = pageChat
			return m, nil
		}
	case "4":
		if m.page != pageMatch {
			m.page = pageMe
			return m, nil
		}
	}

	switch m.page {
	case pageBrowse:
		return m.handleBrowseKey(key)
	case pageMatch:
		return m.handleMatchKey(key)
	case pageChat:
		return m.handleChatKey(key)
	case pageMe:
		return m.handleMeKey(key)
	}
	return m, nil
}

func (m *Model) matchRunning() bool {
	switch m.snap.State.Phase {
	case engine.PhaseDrafting, engine.PhaseFinalChoice, engine.PhaseComplete:
		return true
	}
	return false
}

func (m *Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.profiles)-1 {
			m.cursor++
		}
	case "l":
		if m.cursor < len(m.profiles) {
			return m, m.likeProfile(m.profiles[m.cursor])
		}
	case "m":
		if !m.loadingPool {
			return m, m.fetchPool()
		}
	case "g":
		return m, m.fetchBrowse()
	}
	return m, nil
}

func (m *Model) handleMatchKey(key string) (tea.Model, tea.Cmd) {
	state := m.snap.State
	switch state.Phase {
	case engine.PhaseDrafting, engine.PhaseFinalChoice:
		switch key {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(state.Board)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor < len(state.Board) {
				cmd := engine.Command{Type: engine.CmdKeep, ProfileID: state.Board[m.cursor].ID}
				if state.Phase == engine.PhaseFinalChoice {
					cmd = engine.Command{Type: engine.CmdFinalPick, ProfileID: state.Board[m.cursor].ID}
				}
				m.sess.Inbox() <- session.FromUI{Cmd: cmd}
			}
		case "s":
			// "Still Top" shortcut; harmless before any keep or after round 5.
			m.sess.Inbox() <- session.FromUI{Cmd: engine.Command{Type: engine.CmdStillTop}}
		case "e", "esc":
			m.sess.Inbox() <- session.FromUI{Cmd: engine.Command{Type: engine.CmdEndMatch}}
		}
	case engine.PhaseComplete, engine.PhaseAborted:
		if key == "b" || key == "enter" || key == "esc" {
			m.page = pageBrowse
		}
	}
	return m, nil
}

func (m *Model) handleChatKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.connCursor > 0 {
			m.connCursor--
		}
	case "down", "j":
		if m.connCursor < len(m.conns)-1 {
			m.connCursor++
		}
	case "enter":
		if m.connCursor < len(m.conns) {
			m.activePeer = m.conns[m.connCursor].UserID
			m.peerTrack.Store(int64(m.activePeer))
			m.messages = nil
			return m, m.fetchChatHistory(m.activePeer)
		}
	case "i":
		if m.activePeer != 0 {
			m.typing = true
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	case "g":
		return m, m.fetchConnections()
	}
	return m, nil
}

func (m *Model) handleMeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "e":
		m.editing = true
		m.input.SetValue(m.me.Biography)
		return m, m.input.Focus()
	case "g":
		return m, m.fetchProfile()
	}
	return m, nil
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		m.input.SetValue("")
		m.input.Blur()
		if m.editing {
			m.editing = false
			m.me.Biography = value
			return m, m.saveProfile(m.me)
		}
		m.typing = false
		if value == "" || m.activePeer == 0 {
			return m, nil
		}
		// Optimistic append: the message shows immediately and survives
		// message polls until the server echoes it back.
		m.messages = append(m.messages, types.Message{
			SenderID: m.me.ID,
			Content:  value,
			Pending:  true,
		})
		return m, m.sendChatMessage(m.activePeer, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
