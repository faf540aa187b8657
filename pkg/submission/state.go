package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-riskform/pkg/predict"
)

// DefaultFailureMessage is shown when a failure carries no service message.
const DefaultFailureMessage = "Prediction failed"

var (
	// ErrInFlight rejects a submission while another one is pending.
	ErrInFlight = errors.New("submission: request already in flight")
	// ErrNotPending rejects completing a cycle that never started.
	ErrNotPending = errors.New("submission: no request pending")
)

// Phase is the lifecycle position of one predict cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the submission side of the form session. Result is set only in
// PhaseSucceeded and Message only in PhaseFailed.
type State struct {
	Phase     Phase
	Busy      bool
	Result    *predict.Result
	Message   string
	Name      string
	RequestID string
}

// Terminal reports whether the cycle has finished.
func (s State) Terminal() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailed
}

// Begin enters PhasePending from any other phase, clearing the previous
// result and message.
func Begin(s State) (State, error) {
	if s.Phase == PhasePending {
		return s, ErrInFlight
	}
	return State{
		Phase:     PhasePending,
		Busy:      true,
		Name:      s.Name,
		RequestID: s.RequestID,
	}, nil
}

// Succeed stores the service result unchanged.
func Succeed(s State, result predict.Result) (State, error) {
	if s.Phase != PhasePending {
		return s, fmt.Errorf("%w: phase %s", ErrNotPending, s.Phase)
	}
	stored := result
	return State{
		Phase:     PhaseSucceeded,
		Result:    &stored,
		Name:      s.Name,
		RequestID: s.RequestID,
	}, nil
}

// Fail stores message and drops any partial result.
func Fail(s State, message string) (State, error) {
	if s.Phase != PhasePending {
		return s, fmt.Errorf("%w: phase %s", ErrNotPending, s.Phase)
	}
	return State{
		Phase:     PhaseFailed,
		Message:   message,
		Name:      s.Name,
		RequestID: s.RequestID,
	}, nil
}

// Reset returns a finished cycle to PhaseIdle.
func Reset(s State) (State, error) {
	if s.Phase == PhasePending {
		return s, ErrInFlight
	}
	return State{}, nil
}

// MessageFor converts a predict failure into the text shown to the user: the
// service's error field when it has one, DefaultFailureMessage otherwise.
func MessageFor(err error) string {
	var svcErr *predict.ServiceError
	if errors.As(err, &svcErr) && strings.TrimSpace(svcErr.Message) != "" {
		return svcErr.Message
	}
	return DefaultFailureMessage
}
