package engine

import (
	"errors"

	"github.com/matcha-app/matcha-tui/internal/types"
)

var ErrEmptyPool = errors.New("empty candidate pool")
var ErrWrongPhase = errors.New("invalid phase for command")
var ErrNotOnBoard = errors.New("profile not on the board")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseBrowsing    Phase = "browsing"
	PhaseDrafting    Phase = "drafting"
	PhaseFinalChoice Phase = "final_choice"
	PhaseComplete    Phase = "complete"
	PhaseAborted     Phase = "aborted"
)

const (
	// PoolLimit is how many candidates a session drafts at most.
	PoolLimit = 67
	// BoardSize is how many candidates are shown per round.
	BoardSize = 5
	// FinalRound is the round at which the session forces a terminal choice.
	FinalRound = 5
)

// State is one match session. Pool order is fixed at session start; board
// refills are taken in pool order, so a session is fully deterministic given
// its pool.
type State struct {
	Phase    Phase
	Round    int
	Pool     []types.CandidateProfile
	Excluded map[int]bool
	KeptID   int // 0 until the first keep decision
	Board    []types.CandidateProfile
}

type CommandType string

const (
	CmdStartMatch CommandType = "StartMatch"
	CmdKeep       CommandType = "Keep"
	CmdStillTop   CommandType = "StillTop"
	CmdFinalPick  CommandType = "FinalPick"
	CmdEndMatch   CommandType = "EndMatch"
)

type Command struct {
	Type      CommandType
	ProfileID int
	Pool      []types.CandidateProfile // StartMatch only
}

type EventType string

const (
	EvtSessionStarted     EventType = "SessionStarted"
	EvtProfileKept        EventType = "ProfileKept"
	EvtCandidatesExcluded EventType = "CandidatesExcluded"
	EvtRoundAdvanced      EventType = "RoundAdvanced"
	EvtFinalChoiceReached EventType = "FinalChoiceReached"
	EvtSessionCompleted   EventType = "SessionCompleted"
	EvtSessionAborted     EventType = "SessionAborted"
)

type Event struct {
	Type      EventType
	ProfileID int
	Round     int
	Excluded  []int
	Pool      []types.CandidateProfile // SessionStarted only, so Reduce can replay
}

// Apply runs one command against the session. On error the returned state is
// the input state, untouched.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdStartMatch:
		// Legal from any phase: a new session replaces whatever came before.
		if len(cmd.Pool) == 0 {
			return nil, s, ErrEmptyPool
		}
		pool := cmd.Pool
		if len(pool) > PoolLimit {
			pool = pool[:PoolLimit]
		}
		newState := newSessionState(pool)
		return []Event{{Type: EvtSessionStarted, Round: 1, Pool: pool}}, newState, nil

	case CmdKeep:
		if s.Phase != PhaseDrafting && s.Phase != PhaseFinalChoice {
			return nil, s, ErrWrongPhase
		}
		survivor := s.KeptID
		if survivor == 0 {
			if !onBoard(s, cmd.ProfileID) {
				return nil, s, ErrNotOnBoard
			}
			survivor = cmd.ProfileID
		}
		return applyKeep(s, survivor)

	case CmdStillTop:
		// Shortcut re-entry of Keep(kept). Outside a live session, without a
		// kept profile, or once the final round is reached, it does nothing
		// at all.
		if s.Phase != PhaseDrafting && s.Phase != PhaseFinalChoice {
			return nil, s, nil
		}
		if s.KeptID == 0 || s.Round >= FinalRound {
			return nil, s, nil
		}
		return applyKeep(s, s.KeptID)

	case CmdFinalPick:
		if s.Phase != PhaseFinalChoice {
			return nil, s, ErrWrongPhase
		}
		if !onBoard(s, cmd.ProfileID) {
			return nil, s, ErrNotOnBoard
		}
		newState := s
		newState.KeptID = cmd.ProfileID
		newState.Phase = PhaseComplete
		newState.Board = boardOf(s, cmd.ProfileID)
		events := []Event{
			{Type: EvtProfileKept, ProfileID: cmd.ProfileID},
			{Type: EvtSessionCompleted, ProfileID: cmd.ProfileID},
		}
		return events, newState, nil

	case CmdEndMatch:
		// Snooze: abandon the session, no like is ever sent.
		if s.Phase != PhaseDrafting && s.Phase != PhaseFinalChoice {
			return nil, s, ErrWrongPhase
		}
		newState := s
		newState.Phase = PhaseAborted
		return []Event{{Type: EvtSessionAborted}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// applyKeep excludes everything on the board except the survivor, then either
// refills the board for the next round or terminates the session.
func applyKeep(s State, survivor int) ([]Event, State, error) {
	newState := s

	dropped := make([]int, 0, len(s.Board))
	excluded := make(map[int]bool, len(s.Excluded)+len(s.Board))
	for id := range s.Excluded {
		excluded[id] = true
	}
	for _, p := range s.Board {
		if p.ID == survivor {
			continue
		}
		excluded[p.ID] = true
		dropped = append(dropped, p.ID)
	}
	newState.Excluded = excluded
	newState.KeptID = survivor

	events := []Event{
		{Type: EvtProfileKept, ProfileID: survivor},
		{Type: EvtCandidatesExcluded, Excluded: dropped},
	}

	// Terminal guard: keeping past the final round only ever re-affirms the
	// kept profile. The session completes without a like.
	if s.Round >= FinalRound {
		newState.Phase = PhaseComplete
		newState.Board = boardOf(newState, survivor)
		events = append(events, Event{Type: EvtSessionCompleted, ProfileID: survivor})
		return events, newState, nil
	}

	newState.Round = s.Round + 1
	newState.Board = refillBoard(newState, survivor)
	events = append(events, Event{Type: EvtRoundAdvanced, Round: newState.Round})

	if newState.Round == FinalRound {
		newState.Phase = PhaseFinalChoice
		events = append(events, Event{Type: EvtFinalChoiceReached})
	}
	return events, newState, nil
}

// Reduce replays an event log into a state. SessionStarted must come first,
// since it carries the pool every later refill is computed from.
func Reduce(events []Event) State {
	s := NewBrowsingState()
	for _, event := range events {
		switch event.Type {
		case EvtSessionStarted:
			s = newSessionState(event.Pool)
		case EvtProfileKept:
			s.KeptID = event.ProfileID
		case EvtCandidatesExcluded:
			for _, id := range event.Excluded {
				s.Excluded[id] = true
			}
		case EvtRoundAdvanced:
			s.Round = event.Round
			s.Board = refillBoard(s, s.KeptID)
			if s.Round == FinalRound {
				s.Phase = PhaseFinalChoice
			}
		case EvtSessionCompleted:
			s.Phase = PhaseComplete
			s.Board = boardOf(s, s.KeptID)
		case EvtSessionAborted:
			s.Phase = PhaseAborted
		}
	}
	return s
}
