package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
)

// Observer is notified after every transition with the new state.
type Observer func(State)

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger routes workflow logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver registers a transition callback.
func WithObserver(observer Observer) Option {
	return func(w *Workflow) {
		if observer != nil {
			w.observers = append(w.observers, observer)
		}
	}
}

// WithIDGenerator overrides the request id source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(w *Workflow) {
		if fn != nil {
			w.newID = fn
		}
	}
}

// Workflow owns one form state and drives its predict cycles. At most one
// request is in flight at a time; a new submission never cancels a running one.
type Workflow struct {
	mu        sync.Mutex
	client    predict.Client
	form      *form.State
	state     State
	logger    *slog.Logger
	observers []Observer
	newID     func() string
}

// New constructs a workflow around client and state.
func New(client predict.Client, state *form.State, options ...Option) (*Workflow, error) {
	if client == nil {
		return nil, errors.New("submission: client is required")
	}
	if state == nil {
		return nil, errors.New("submission: form state is required")
	}

	w := &Workflow{
		client: client,
		form:   state,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// State returns the current submission state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Form returns a copy of the current form state.
func (w *Workflow) Form() *form.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Clone()
}

// Update applies fn to the owned form state.
func (w *Workflow) Update(fn func(*form.State) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.form)
}

// Submit runs one predict cycle with the current form values. It returns
// ErrInFlight, without contacting the service, when a cycle is pending. Any
// service or transport failure ends in PhaseFailed and is not returned as an
// error.
func (w *Workflow) Submit(ctx context.Context) (State, error) {
	w.mu.Lock()
	pending, err := Begin(w.state)
	if err != nil {
		current := w.state
		w.mu.Unlock()
		w.logger.Debug("submission rejected", "request_id", current.RequestID, "error", err)
		return current, err
	}
	pending.RequestID = w.newID()
	pending.Name = w.form.Name()
	payload := w.form.Payload()
	w.state = pending
	w.mu.Unlock()

	w.notify(pending)
	w.logger.Info("submitting prediction", "request_id", pending.RequestID)

	result, callErr := w.call(predict.WithRequestID(ctx, pending.RequestID), payload)

	w.mu.Lock()
	var final State
	if callErr != nil {
		final, _ = Fail(w.state, MessageFor(callErr))
	} else {
		final, _ = Succeed(w.state, result)
	}
	w.state = final
	w.mu.Unlock()

	if callErr != nil {
		w.logger.Warn("prediction failed", "request_id", final.RequestID, "error", callErr, "message", final.Message)
	} else {
		w.logger.Info("prediction succeeded", "request_id", final.RequestID)
	}
	w.notify(final)
	return final, nil
}

// Reset moves a finished cycle back to PhaseIdle.
func (w *Workflow) Reset() (State, error) {
	w.mu.Lock()
	next, err := Reset(w.state)
	if err != nil {
		current := w.state
		w.mu.Unlock()
		return current, err
	}
	w.state = next
	w.mu.Unlock()

	w.notify(next)
	return next, nil
}

func (w *Workflow) call(ctx context.Context, payload predict.Request) (result predict.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission: client panic: %v", r)
		}
	}()
	return w.client.Predict(ctx, payload)
}

func (w *Workflow) notify(state State) {
	for _, observer := range w.observers {
		observer(state)
	}
}
