package engine

import "github.com/matcha-app/matcha-tui/internal/types"

// NewBrowsingState is the idle state before any session exists.
func NewBrowsingState() State {
	return State{
		Phase:    PhaseBrowsing,
		Round:    0,
		Pool:     nil,
		Excluded: map[int]bool{},
		KeptID:   0,
		Board:    nil,
	}
}

func newSessionState(pool []types.CandidateProfile) State {
	s := State{
		Phase:    PhaseDrafting,
		Round:    1,
		Pool:     pool,
		Excluded: map[int]bool{},
		KeptID:   0,
	}
	n := BoardSize
	if len(pool) < n {
		n = len(pool)
	}
	s.Board = append([]types.CandidateProfile(nil), pool[:n]...)
	return s
}

// refillBoard builds the next board: the survivor first, then up to
// BoardSize-1 pool-order candidates that are neither the survivor nor
// excluded. A short board is fine when the pool runs dry.
func refillBoard(s State, survivor int) []types.CandidateProfile {
	board := make([]types.CandidateProfile, 0, BoardSize)
	if p, ok := poolProfile(s, survivor); ok {
		board = append(board, p)
	}
	for _, p := range s.Pool {
		if len(board) >= BoardSize {
			break
		}
		if p.ID == survivor || s.Excluded[p.ID] {
			continue
		}
		board = append(board, p)
	}
	return board
}

// boardOf is the terminal single-profile board.
func boardOf(s State, id int) []types.CandidateProfile {
	if p, ok := poolProfile(s, id); ok {
		return []types.CandidateProfile{p}
	}
	return nil
}

func poolProfile(s State, id int) (types.CandidateProfile, bool) {
	for _, p := range s.Pool {
		if p.ID == id {
			return p, true
		}
	}
	return types.CandidateProfile{}, false
}

func onBoard(s State, id int) bool {
	for _, p := range s.Board {
		if p.ID == id {
			return true
		}
	}
	return false
}

// KeptProfile resolves the kept profile from the pool, if any.
func KeptProfile(s State) (types.CandidateProfile, bool) {
	if s.KeptID == 0 {
		return types.CandidateProfile{}, false
	}
	return poolProfile(s, s.KeptID)
}

// Remaining counts pool candidates still in play (not excluded, not kept).
func Remaining(s State) int {
	n := 0
	for _, p := range s.Pool {
		if p.ID == s.KeptID || s.Excluded[p.ID] {
			continue
		}
		n++
	}
	return n
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
