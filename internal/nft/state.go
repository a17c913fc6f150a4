package nft

import "time"

// State is the lifecycle position of a single nft invocation.
type State int

const (
	StateIdle State = iota
	StateSpawned
	StateWritingInput
	StateAwaitingExit
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawned:
		return "spawned"
	case StateWritingInput:
		return "writing_input"
	case StateAwaitingExit:
		return "awaiting_exit"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Operation names passed to an Observer.
const (
	OpApply = "apply"
	OpCheck = "check"
	OpList  = "list"
)

// Observer receives lifecycle and outcome events from a Client.
type Observer interface {
	ObserveState(op string, state State)
	ObserveResult(op string, err error, payloadBytes int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveState(string, State) {}
func (nopObserver) ObserveResult(string, error, int, time.Duration) {}
