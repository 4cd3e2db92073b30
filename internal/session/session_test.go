package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matcha-app/matcha-tui/internal/engine"
	"github.com/matcha-app/matcha-tui/internal/types"
)

type fakeLiker struct {
	calls atomic.Int64
	err   error
}

func (f *fakeLiker) Like(ctx context.Context, userID int) error {
	f.calls.Add(1)
	return f.err
}

func testPool(n int) []types.CandidateProfile {
	pool := make([]types.CandidateProfile, n)
	for i := range pool {
		pool[i] = types.CandidateProfile{ID: i + 1}
	}
	return pool
}

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("subscriber outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvNoSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			return
		}
		t.Fatalf("expected no snapshot within %v, got %+v", within, s)
	case <-time.After(within):
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func startSession(t *testing.T, liker Liker) (*Session, chan Snapshot) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := New(ctx, liker, time.Second, nil)
	out := make(chan Snapshot, 16)
	s.Inbox() <- Join{ID: "ui", Outbox: out}

	first := recvSnapshot(t, out, 100*time.Millisecond)
	if first.Version != 0 || first.State.Phase != engine.PhaseBrowsing {
		t.Fatalf("join snapshot: want v0 browsing, got v%d %v", first.Version, first.State.Phase)
	}
	return s, out
}

func driveToFinalChoice(t *testing.T, s *Session, out chan Snapshot) Snapshot {
	t.Helper()
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStartMatch, Pool: testPool(30)}}
	snap := recvSnapshot(t, out, 100*time.Millisecond)

	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdKeep, ProfileID: 1}}
	snap = recvSnapshot(t, out, 100*time.Millisecond)
	for snap.State.Phase == engine.PhaseDrafting {
		s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStillTop}}
		snap = recvSnapshot(t, out, 100*time.Millisecond)
	}
	if snap.State.Phase != engine.PhaseFinalChoice {
		t.Fatalf("expected final choice, got %v", snap.State.Phase)
	}
	return snap
}

func TestSession_StartMatchBroadcastsVersionedSnapshot(t *testing.T) {
	s, out := startSession(t, &fakeLiker{})

	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStartMatch, Pool: testPool(10)}}
	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 1 {
		t.Fatalf("want version 1, got %d", snap.Version)
	}
	if snap.State.Phase != engine.PhaseDrafting || len(snap.State.Board) != 5 {
		t.Fatalf("unexpected state after start: %+v", snap.State)
	}
	if !engine.ContainsEvent(snap.Events, engine.EvtSessionStarted) {
		t.Fatalf("expected SessionStarted event")
	}
}

func TestSession_RejectedCommandKeepsVersionAndSurfacesError(t *testing.T) {
	s, out := startSession(t, &fakeLiker{})

	// Keep before any session exists.
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdKeep, ProfileID: 1}}
	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 0 || snap.Err == "" {
		t.Fatalf("want unversioned error snapshot, got %+v", snap)
	}
	if snap.State.Phase != engine.PhaseBrowsing {
		t.Fatalf("state must not move on a rejected command")
	}
}

func TestSession_FinalPickSendsExactlyOneLike(t *testing.T) {
	liker := &fakeLiker{}
	s, out := startSession(t, liker)
	snap := driveToFinalChoice(t, s, out)

	// Intermediate keeps never triggered likes.
	if got := liker.calls.Load(); got != 0 {
		t.Fatalf("likes before final pick: %d", got)
	}

	pick := snap.State.Board[0].ID
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdFinalPick, ProfileID: pick}}
	snap = recvSnapshot(t, out, 100*time.Millisecond)
	if snap.State.Phase != engine.PhaseComplete || snap.State.KeptID != pick {
		t.Fatalf("want complete with kept %d, got %+v", pick, snap.State)
	}
	if got := liker.calls.Load(); got != 1 {
		t.Fatalf("want exactly one like, got %d", got)
	}

	// A second final pick is rejected by phase, so no second like goes out.
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdFinalPick, ProfileID: pick}}
	snap = recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Err == "" {
		t.Fatalf("expected rejection after completion")
	}
	if got := liker.calls.Load(); got != 1 {
		t.Fatalf("completed session must like once, got %d", got)
	}
}

func TestSession_FailedLikeLeavesStateUntouched(t *testing.T) {
	liker := &fakeLiker{err: errors.New("500 from backend")}
	s, out := startSession(t, liker)
	snap := driveToFinalChoice(t, s, out)
	versionBefore := snap.Version

	pick := snap.State.Board[1].ID
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdFinalPick, ProfileID: pick}}
	snap = recvSnapshot(t, out, 100*time.Millisecond)

	if snap.Err == "" {
		t.Fatalf("failed like must be surfaced, got %+v", snap)
	}
	if snap.Version != versionBefore {
		t.Fatalf("version must not advance on a failed like: %d -> %d", versionBefore, snap.Version)
	}
	if snap.State.Phase != engine.PhaseFinalChoice {
		t.Fatalf("session must stay in final choice, got %v", snap.State.Phase)
	}
	if snap.State.KeptID == pick {
		t.Fatalf("kept profile must not change on a failed like")
	}
}

func TestSession_StillTopNoOpProducesNoSnapshot(t *testing.T) {
	s, out := startSession(t, &fakeLiker{})
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStartMatch, Pool: testPool(10)}}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	// No kept profile yet: StillTop must neither broadcast nor bump.
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStillTop}}
	recvNoSnapshot(t, out, 80*time.Millisecond)

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.Version != 1 {
		t.Fatalf("want version still 1, got %d", view.Version)
	}
}

func TestSession_DropsSlowSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(ctx, &fakeLiker{}, time.Second, nil)

	out := make(chan Snapshot, 1) // join snapshot fills the only slot
	s.Inbox() <- Join{ID: "slow", Outbox: out}
	s.Inbox() <- FromUI{Cmd: engine.Command{Type: engine.CmdStartMatch, Pool: testPool(10)}}

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.NumSubscribers != 0 {
		t.Fatalf("expected slow subscriber to be dropped, have %d", view.NumSubscribers)
	}
}

func TestSession_JoinWithFullOutboxIsRefused(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(ctx, &fakeLiker{}, time.Second, nil)

	full := make(chan Snapshot) // unbuffered, nobody reading
	s.Inbox() <- Join{ID: "stuck", Outbox: full}

	// The loop must stay responsive and must not register the joiner.
	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.NumSubscribers != 0 {
		t.Fatalf("expected refused joiner, have %d subscribers", view.NumSubscribers)
	}
	select {
	case _, ok := <-full:
		if ok {
			t.Fatalf("expected closed outbox for refused joiner")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("refused joiner's outbox not closed")
	}
}

func TestSession_ShutdownClosesSubscribers(t *testing.T) {
	s, out := startSession(t, &fakeLiker{})
	s.Inbox() <- Shutdown{}
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("outbox not closed on shutdown")
	}
}
