package session

import "time"

// Hooks are the controller's callbacks into the UI layer. All fields are
// optional. Callbacks run on the controller's timer goroutines and must not
// block.
type Hooks struct {
	// OnTick fires every second while the session is active.
	OnTick func(remaining time.Duration)

	// OnTimeExpired fires once when the countdown reaches zero. The UI
	// should show the blocking "time expired" notice; no further input is
	// accepted.
	OnTimeExpired func()

	// OnRedirect fires when the session has fully terminated (Submitted or
	// Expired) and the UI should return to the identity step.
	OnRedirect func()
}

func (h Hooks) tick(remaining time.Duration) {
	if h.OnTick != nil {
		h.OnTick(remaining)
	}
}

func (h Hooks) timeExpired() {
	if h.OnTimeExpired != nil {
		h.OnTimeExpired()
	}
}

func (h Hooks) redirect() {
	if h.OnRedirect != nil {
		h.OnRedirect()
	}
}
