// Package session runs one match session as a single-goroutine actor: the UI
// talks to it through an inbox and receives versioned state snapshots back.
// All engine state is owned by the loop, so there is never a concurrent
// writer.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/matcha-app/matcha-tui/internal/engine"
)

// Liker sends the final-pick like. *api.Client satisfies it; tests inject
// fakes.
type Liker interface {
	Like(ctx context.Context, userID int) error
}

type Msg interface{ isSessionMsg() }

// FromUI carries one engine command from the interface.
type FromUI struct {
	Cmd engine.Command
}

func (FromUI) isSessionMsg() {}

// Join subscribes a snapshot consumer.
type Join struct {
	ID     string
	Outbox chan Snapshot
}

func (Join) isSessionMsg() {}

type Leave struct{ ID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// GetState reflects internal state without data races; used by tests.
type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// Snapshot is what subscribers receive after every state change. Err carries
// a user-visible failure (the final-pick like not going through) without a
// version bump, since the state did not move.
type Snapshot struct {
	Version int
	State   engine.State
	Events  []engine.Event
	Err     string
}

type View struct {
	Version        int
	NumSubscribers int
	State          engine.State
}

type Session struct {
	inbox       chan Msg
	state       engine.State
	version     int
	subscribers map[string]chan Snapshot
	liker       Liker
	likeTimeout time.Duration
	log         *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(parent context.Context, liker Liker, likeTimeout time.Duration, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:       make(chan Msg, 64),
		state:       engine.NewBrowsingState(),
		subscribers: make(map[string]chan Snapshot),
		liker:       liker,
		likeTimeout: likeTimeout,
		log:         log.Named("session"),
		ctx:         ctx,
		cancel:      cancel,
	}
	go s.loop()
	return s
}

// Inbox is where the UI (and tests) send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				select {
				case msg.Outbox <- Snapshot{Version: s.version, State: s.state}:
					s.subscribers[msg.ID] = msg.Outbox
				default:
					// A joiner that cannot take the initial snapshot would
					// stall the loop; refuse it like a slow subscriber.
					close(msg.Outbox)
				}

			case Leave:
				delete(s.subscribers, msg.ID)

			case FromUI:
				s.handleCommand(msg.Cmd)

			case GetState:
				msg.Reply <- View{
					Version:        s.version,
					NumSubscribers: len(s.subscribers),
					State:          s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleCommand(cmd engine.Command) {
	events, newState, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Debug("command rejected", zap.String("cmd", string(cmd.Type)), zap.Error(err))
		s.broadcast(Snapshot{Version: s.version, State: s.state, Err: err.Error()})
		return
	}
	// StillTop outside its window is a deliberate no-op: nothing to commit,
	// nothing to broadcast.
	if len(events) == 0 {
		return
	}

	// The final pick is the one network side effect of a session: the like
	// goes out first, and the terminal transition commits only if it lands.
	if cmd.Type == engine.CmdFinalPick {
		ctx, cancel := context.WithTimeout(s.ctx, s.likeTimeout)
		likeErr := s.liker.Like(ctx, cmd.ProfileID)
		cancel()
		if likeErr != nil {
			s.log.Warn("final pick like failed", zap.Int("profile_id", cmd.ProfileID), zap.Error(likeErr))
			s.broadcast(Snapshot{Version: s.version, State: s.state, Err: "could not send like: " + likeErr.Error()})
			return
		}
	}

	s.state = newState
	s.version++
	s.broadcast(Snapshot{Version: s.version, State: s.state, Events: events})
}

func (s *Session) shutdown() {
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Subscriber is slow or gone; drop it rather than stall the loop.
			close(ch)
			delete(s.subscribers, id)
		}
	}
}
