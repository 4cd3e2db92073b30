// Package ui is the terminal interface: pages, the match board, the
// final-pick dialog, toasts and the offline modal. It holds no business
// state of its own beyond cursors and in-flight flags; session state lives
// in the session actor, server state on the server.
package ui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matcha-app/matcha-tui/internal/api"
	"github.com/matcha-app/matcha-tui/internal/engine"
	"github.com/matcha-app/matcha-tui/internal/session"
	"github.com/matcha-app/matcha-tui/internal/types"
)

type page int

const (
	pageBrowse page = iota
	pageMatch
	pageChat
	pageMe
)

var pageNames = []string{"Browse", "Match", "Chat", "Me"}

// PollControls lets the UI pause background refreshes while the terminal is
// unfocused.
type PollControls interface {
	Pause()
	Resume()
}

type noopPolls struct{}

func (noopPolls) Pause()  {}
func (noopPolls) Resume() {}

// Messages pushed from outside the Update loop (pollers, offline detector)
// via Program.Send.

type NotificationsMsg struct{ Items []types.Notification }

type MessagesMsg struct {
	PeerID int
	Items  []types.Message
}

type OfflineMsg struct{ Down bool }

// ProfileRefreshMsg is pushed by the location-freshness poller with the
// re-fetched own profile.
type ProfileRefreshMsg struct{ Profile types.OwnProfile }

// Internal command results.

type snapshotMsg struct{ snap session.Snapshot }

type browseResultMsg struct {
	profiles []types.CandidateProfile
	err      error
}

type poolResultMsg struct {
	profiles []types.CandidateProfile
	err      error
}

type connectionsMsg struct {
	conns []types.Connection
	err   error
}

type chatHistoryMsg struct {
	peerID int
	msgs   []types.Message
	err    error
}

type sendResultMsg struct {
	peerID  int
	content string
	stored  types.Message
	err     error
}

type likeResultMsg struct {
	name string
	err  error
}

type retryResultMsg struct{ err error }

type profileMsg struct {
	profile types.OwnProfile
	tags    []types.Tag
	err     error
}

type profileSavedMsg struct{ err error }

type Model struct {
	client    *api.Client
	sess      *session.Session
	snaps     chan session.Snapshot
	polls     PollControls
	peerTrack *atomic.Int64 // open conversation, read by the message poller
	timeout   time.Duration

	page   page
	width  int
	height int

	spin spinner.Model

	// browse
	profiles      []types.CandidateProfile
	cursor        int
	loadingBrowse bool
	loadingPool   bool

	// match
	snap session.Snapshot

	// chat
	conns      []types.Connection
	connCursor int
	activePeer int
	messages   []types.Message
	input      textinput.Model
	typing     bool

	// me
	me      types.OwnProfile
	tags    []types.Tag
	editing bool

	// notifications
	notifSeen map[string]bool

	offline  bool
	toasts   []toast
	toastSeq int
}

func New(client *api.Client, sess *session.Session, polls PollControls, peerTrack *atomic.Int64, timeout time.Duration) *Model {
	if polls == nil {
		polls = noopPolls{}
	}
	if peerTrack == nil {
		peerTrack = &atomic.Int64{}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "say something nice"
	in.CharLimit = 280

	snaps := make(chan session.Snapshot, 16)
	sess.Inbox() <- session.Join{ID: "tui", Outbox: snaps}

	return &Model{
		client:    client,
		sess:      sess,
		snaps:     snaps,
		polls:     polls,
		peerTrack: peerTrack,
		timeout:   timeout,
		spin:      sp,
		input:     in,
		notifSeen: map[string]bool{},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.waitSnapshot(),
		m.fetchBrowse(),
		m.fetchConnections(),
		m.fetchProfile(),
	)
}

// waitSnapshot re-arms after every receive so the session stream keeps
// flowing into Update.
func (m *Model) waitSnapshot() tea.Cmd {
	snaps := m.snaps
	return func() tea.Msg {
		snap, ok := <-snaps
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

func (m *Model) fetchBrowse() tea.Cmd {
	client := m.client
	m.loadingBrowse = true
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profiles, err := client.Browse(ctx, api.BrowseParams{Limit: 20})
		return browseResultMsg{profiles: profiles, err: err}
	}
}

// fetchPool drafts the match-session pool: one page of up to 67 profiles at
// offset 0.
func (m *Model) fetchPool() tea.Cmd {
	client := m.client
	m.loadingPool = true
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profiles, err := client.Browse(ctx, api.BrowseParams{Limit: engine.PoolLimit})
		return poolResultMsg{profiles: profiles, err: err}
	}
}

func (m *Model) fetchConnections() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conns, err := client.Connections(ctx)
		return connectionsMsg{conns: conns, err: err}
	}
}

func (m *Model) fetchChatHistory(peerID int) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := client.Messages(ctx, peerID)
		return chatHistoryMsg{peerID: peerID, msgs: msgs, err: err}
	}
}

func (m *Model) sendChatMessage(peerID int, content string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stored, err := client.SendMessage(ctx, peerID, content)
		return sendResultMsg{peerID: peerID, content: content, stored: stored, err: err}
	}
}

func (m *Model) likeProfile(p types.CandidateProfile) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.Like(ctx, p.ID)
		return likeResultMsg{name: p.FirstName, err: err}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profile, err := client.Profile(ctx)
		if err != nil {
			return profileMsg{err: err}
		}
		tags, err := client.Tags(ctx)
		return profileMsg{profile: profile, tags: tags, err: err}
	}
}

func (m *Model) saveProfile(p types.OwnProfile) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return profileSavedMsg{err: client.UpdateProfile(ctx, p)}
	}
}

func (m *Model) retryBackend() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return retryResultMsg{err: client.Ping(ctx)}
	}
}
