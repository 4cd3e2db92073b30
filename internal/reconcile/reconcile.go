// Package reconcile merges polled message lists into the locally displayed
// list without discarding in-flight optimistic sends. Polling responses can
// race with user actions; a naive replace would make a just-sent message
// flicker out until the next poll echoes it back.
package reconcile

import "github.com/matcha-app/matcha-tui/internal/types"

// Messages merges the server's list with the current one.
//
// The incoming list is authoritative for everything the server knows about.
// Trailing Pending messages in current survive unless the server now echoes
// them (matched by sender and content), in which case the echoed copy wins.
func Messages(current, incoming []types.Message) []types.Message {
	pending := trailingPending(current)
	if len(pending) == 0 {
		return incoming
	}

	merged := make([]types.Message, 0, len(incoming)+len(pending))
	merged = append(merged, incoming...)
	for _, p := range pending {
		if echoed(incoming, p) {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// Changed reports whether replacing current with incoming would alter what the
// user sees, compared by length, identity and content. Skipping no-op swaps
// keeps the view stable under the poll interval.
func Changed(current, incoming []types.Message) bool {
	if len(current) != len(incoming) {
		return true
	}
	for i := range current {
		if current[i].ID != incoming[i].ID || current[i].Content != incoming[i].Content {
			return true
		}
	}
	return false
}

func trailingPending(msgs []types.Message) []types.Message {
	i := len(msgs)
	for i > 0 && msgs[i-1].Pending {
		i--
	}
	return msgs[i:]
}

func echoed(incoming []types.Message, p types.Message) bool {
	for _, m := range incoming {
		if m.SenderID == p.SenderID && m.Content == p.Content {
			return true
		}
	}
	return false
}
