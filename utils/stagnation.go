package utils

// stagnationWindow is how many previous states are remembered, so cycles of period up to 3 are caught
const stagnationWindow = 3

// StagnationTracker detects grids stuck in a static state or a short cycle
type StagnationTracker struct {
	history []string
	streak  int
}

func NewStagnationTracker() *StagnationTracker {
	return &StagnationTracker{history: make([]string, 0, stagnationWindow+1)}
}

// Observe records the hash of the current generation and reports whether it repeats a recent one.
func (t *StagnationTracker) Observe(hash string) bool {
	repeated := false
	for _, h := range t.history {
		if h == hash {
			repeated = true
			break
		}
	}

	t.history = append(t.history, hash)
	if len(t.history) > stagnationWindow {
		t.history = t.history[1:]
	}

	if repeated {
		t.streak++
	} else {
		t.streak = 0
	}
	return repeated
}

// Streak returns how many consecutive observations repeated a recent state
func (t *StagnationTracker) Streak() int {
	return t.streak
}
