package domain

import "fmt"

// Status is the terminal state of a flow.
type Status int

const (
	StatusSucceeded Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of running a player, a sequencer or a presenter.
// Cancellation is a status, not an error; Err is only set for Failed and
// optionally carries the cancellation cause.
type Outcome struct {
	Status Status
	Err    error
}

// Succeeded returns a successful outcome.
func Succeeded() Outcome {
	return Outcome{Status: StatusSucceeded}
}

// Cancelled returns a cancellation outcome. cause may be nil.
func Cancelled(cause error) Outcome {
	return Outcome{Status: StatusCancelled, Err: cause}
}

// Failed returns a failure outcome wrapping err.
func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

func (o Outcome) IsSucceeded() bool { return o.Status == StatusSucceeded }
func (o Outcome) IsCancelled() bool { return o.Status == StatusCancelled }
func (o Outcome) IsFailed() bool    { return o.Status == StatusFailed }

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}

// MatchOutcome dispatches on the outcome status.
func MatchOutcome[R any](o Outcome, succeeded func() R, cancelled func(error) R, failed func(error) R) R {
	switch o.Status {
	case StatusCancelled:
		return cancelled(o.Err)
	case StatusFailed:
		return failed(o.Err)
	default:
		return succeeded()
	}
}
