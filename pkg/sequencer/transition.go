package sequencer

import "fmt"

// Kind tags a Transition.
type Kind int

const (
	KindNext Kind = iota
	KindEnded
	KindCancelled
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindEnded:
		return "ended"
	case KindCancelled:
		return "cancelled"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transition is the result of one stage step.
type Transition struct {
	kind Kind
	next Stage
	err  error
}

// Next continues the flow with s.
func Next(s Stage) Transition { return Transition{kind: KindNext, next: s} }

// End terminates the flow successfully.
func End() Transition { return Transition{kind: KindEnded} }

// Cancel terminates the flow as cancelled.
func Cancel() Transition { return Transition{kind: KindCancelled} }

// Fail terminates the flow with err.
func Fail(err error) Transition { return Transition{kind: KindFailed, err: err} }

func (t Transition) Kind() Kind   { return t.kind }
func (t Transition) Stage() Stage { return t.next }
func (t Transition) Err() error   { return t.err }

// Match dispatches on the transition kind.
func Match[R any](t Transition, next func(Stage) R, ended func() R, cancelled func() R, failed func(error) R) R {
	switch t.kind {
	case KindNext:
		return next(t.next)
	case KindEnded:
		return ended()
	case KindCancelled:
		return cancelled()
	default:
		return failed(t.err)
	}
}
