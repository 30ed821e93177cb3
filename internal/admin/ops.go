package admin

// Op identifies a mutating cache operation.
type Op string

const (
	OpRefresh Op = "refresh"
	OpClear   Op = "clear"
)

// Past returns the past-tense verb used in success notices.
func (o Op) Past() string {
	switch o {
	case OpRefresh:
		return "refreshed"
	case OpClear:
		return "cleared"
	default:
		return string(o)
	}
}

// State returns the in-flight phase a dispatched operation of this kind
// puts its cache key into.
func (o Op) State() OpState {
	switch o {
	case OpClear:
		return Clearing
	case OpRefresh:
		return Refreshing
	default:
		return Idle
	}
}

// OpState is the in-flight phase of one cache key. Refresh and clear are
// mutually exclusive per key, so a single value per key captures the whole
// lifecycle.
type OpState int

const (
	// Idle means no operation is in flight for the key.
	Idle OpState = iota
	// Refreshing means a refresh was dispatched and has not resolved.
	Refreshing
	// Clearing means a clear was dispatched and has not resolved.
	Clearing
)

// String returns the lifecycle name for logs and button labels.
func (s OpState) String() string {
	switch s {
	case Refreshing:
		return "refreshing"
	case Clearing:
		return "clearing"
	default:
		return "idle"
	}
}

// OpStates maps cache keys (or AllKey) to their in-flight phase. Keys at
// Idle are absent, so the nil map means everything is idle. Values are
// updated copy-on-write: With returns a fresh map and never mutates its
// receiver, so a concurrently rendering view observes either the old or the
// new map, never a partial write.
type OpStates map[string]OpState

// Get returns the phase for key, Idle when untracked.
func (s OpStates) Get(key string) OpState {
	return s[key]
}

// Busy reports whether any key has an operation in flight.
func (s OpStates) Busy() bool {
	return len(s) > 0
}

// With returns a copy of s with key set to state. Setting Idle removes the
// key.
func (s OpStates) With(key string, state OpState) OpStates {
	next := make(OpStates, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	if state == Idle {
		delete(next, key)
	} else {
		next[key] = state
	}
	return next
}
