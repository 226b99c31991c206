package account

import (
	"fmt"
	"sync"
)

// OutcomeKind is the stage a submission has reached.
type OutcomeKind int

const (
	// Idle means nothing has been submitted yet.
	Idle OutcomeKind = iota
	// Pending means a submission is in flight.
	Pending
	Succeeded
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the user-visible result of a submission. Only Succeeded and
// Failed carry a message. A form is busy exactly when its outcome is Pending.
type Outcome struct {
	kind    OutcomeKind
	message string
}

// IdleOutcome is the state of a form before its first submission.
func IdleOutcome() Outcome { return Outcome{kind: Idle} }

// PendingOutcome marks a submission in flight. It carries no message.
func PendingOutcome() Outcome { return Outcome{kind: Pending} }

// SucceededOutcome reports success with the text to show the user.
func SucceededOutcome(msg string) Outcome {
	return Outcome{kind: Succeeded, message: msg}
}

// FailedOutcome reports failure with the text to show the user.
func FailedOutcome(msg string) Outcome {
	return Outcome{kind: Failed, message: msg}
}

func (o Outcome) Kind() OutcomeKind { return o.kind }

// Message is empty unless the outcome is Succeeded or Failed.
func (o Outcome) Message() string { return o.message }

// Busy reports whether the outcome is Pending.
func (o Outcome) Busy() bool { return o.kind == Pending }

func (o Outcome) String() string {
	if o.message == "" {
		return o.kind.String()
	}
	return o.kind.String() + ": " + o.message
}

// Form holds the single live Outcome of one form or view.
type Form struct {
	mu      sync.Mutex
	outcome Outcome
}

// Outcome returns the current outcome, Idle for a zero Form.
func (f *Form) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Busy reports whether a submission on the form is in flight.
func (f *Form) Busy() bool {
	return f.Outcome().Busy()
}

// begin drops the previous outcome and marks the form Pending.
func (f *Form) begin() {
	f.set(PendingOutcome())
}

func (f *Form) finish(o Outcome) Outcome {
	f.set(o)
	return o
}

func (f *Form) set(o Outcome) {
	f.mu.Lock()
	f.outcome = o
	f.mu.Unlock()
}
