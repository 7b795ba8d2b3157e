package engine

import (
	"time"

	vskema "github.com/reoring/vskema"
)

// Mode names the kind of walk that produced a result.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Async rule outcomes reported to observers.
const (
	OutcomeValid      = "valid"
	OutcomeInvalid    = "invalid"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
	OutcomePanic      = "panic"
	OutcomeSuperseded = "superseded"
	OutcomeCanceled   = "canceled"
)

// Observer receives engine events. Implementations must be safe for
// concurrent use; AsyncRuleDone is called from worker goroutines.
type Observer interface {
	ValidationDone(mode Mode, res vskema.ValidationResult, elapsed time.Duration)
	AsyncRuleDone(kind vskema.RuleKind, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ValidationDone(Mode, vskema.ValidationResult, time.Duration) {}
func (nopObserver) AsyncRuleDone(vskema.RuleKind, string, time.Duration)        {}
