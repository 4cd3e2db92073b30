package api

import "sync"

// OfflineDetector tracks whether the backend is reachable. Transport
// failures and 5xx responses flip it down; any successful response flips it
// back up. 4xx responses are the server answering, so they never count.
//
// The UI surfaces a down detector as a blocking modal with a manual retry;
// there is no automatic backoff.
type OfflineDetector struct {
	mu       sync.Mutex
	down     bool
	onChange func(down bool)
}

// OnChange registers a single callback fired outside the lock whenever the
// state flips. Later registrations replace earlier ones.
func (d *OfflineDetector) OnChange(fn func(down bool)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Down reports the current state.
func (d *OfflineDetector) Down() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.down
}

func (d *OfflineDetector) markDown() { d.set(true) }
func (d *OfflineDetector) markUp()   { d.set(false) }

func (d *OfflineDetector) set(down bool) {
	d.mu.Lock()
	changed := d.down != down
	d.down = down
	fn := d.onChange
	d.mu.Unlock()
	if changed && fn != nil {
		fn(down)
	}
}
