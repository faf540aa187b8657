package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/submission"
)

const againMessage = "Predict again?"

// Session walks the user through the form in the terminal, submits it and
// prints the outcome. Prompts are derived from the same render.View the HTML
// page uses, so both surfaces ask for the same controls in the same order.
type Session struct {
	workflow *submission.Workflow
	driver   PromptDriver
	renderer *Renderer
	theme    Theme
	logger   *slog.Logger
	repeat   bool
}

// NewSession binds a session to workflow. Without WithPromptDriver the
// survey driver is used.
func NewSession(workflow *submission.Workflow, options ...Option) (*Session, error) {
	if workflow == nil {
		return nil, errors.New("tui: workflow is required")
	}
	s := newSettings(options)

	driver := s.driver
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	logger := s.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Session{
		workflow: workflow,
		driver:   driver,
		renderer: &Renderer{theme: s.theme},
		theme:    s.theme,
		logger:   logger,
		repeat:   s.repeat,
	}, nil
}

// Run prompts for every control, submits, prints the result panel or the
// error panel and, when repeat is enabled, offers another round seeded with
// the previous answers. It returns the last submission state.
func (s *Session) Run(ctx context.Context) (submission.State, error) {
	for {
		if err := s.collect(ctx); err != nil {
			return s.workflow.State(), err
		}
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+render.PendingLabel); err != nil {
			return s.workflow.State(), err
		}

		state, err := s.workflow.Submit(ctx)
		if err != nil {
			return state, err
		}
		s.logger.Debug("prediction finished", "phase", state.Phase.String(), "request_id", state.RequestID)

		if err := s.show(ctx, state); err != nil {
			return state, err
		}
		if !s.repeat {
			return state, nil
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: againMessage})
		if err != nil {
			return state, err
		}
		if !again {
			return state, nil
		}
		if _, err := s.workflow.Reset(); err != nil {
			return state, err
		}
	}
}

func (s *Session) collect(ctx context.Context) error {
	view := render.NewView(s.workflow.Form(), s.workflow.State())
	for _, control := range view.Controls {
		if err := s.prompt(ctx, control); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) prompt(ctx context.Context, control render.Control) error {
	switch control.Type {
	case render.ControlSelect, render.ControlButtons:
		return s.promptChoice(ctx, control)
	case render.ControlNumber:
		return s.promptNumber(ctx, control)
	default:
		value, err := s.driver.Input(ctx, InputConfig{
			Message: control.Label,
			Default: control.Value,
			Help:    control.Placeholder,
		})
		if err != nil {
			return err
		}
		return s.apply(control.Name, value)
	}
}

// promptNumber asks until the answer is accepted. Rejections are printed and
// the previous value is kept.
func (s *Session) promptNumber(ctx context.Context, control render.Control) error {
	validate := s.numberValidator(control)
	for {
		value, err := s.driver.Input(ctx, InputConfig{
			Message:   control.Label,
			Default:   control.Value,
			Help:      control.Placeholder,
			Validator: validate,
		})
		if err != nil {
			return err
		}
		if verr := validate(value); verr != nil {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+verr.Error()); err != nil {
				return err
			}
			continue
		}
		return s.apply(control.Name, value)
	}
}

func (s *Session) numberValidator(control render.Control) func(string) error {
	return func(raw string) error {
		if control.Required && strings.TrimSpace(raw) == "" {
			return fmt.Errorf("%s is required", control.Label)
		}
		err := s.workflow.Form().CheckField(control.Name, raw)
		var fieldErr *form.FieldError
		if errors.As(err, &fieldErr) {
			return fmt.Errorf("%s %s", control.Label, fieldErr.Message)
		}
		return err
	}
}

func (s *Session) promptChoice(ctx context.Context, control render.Control) error {
	labels := lo.Map(control.Options, func(option render.ControlOption, _ int) string {
		return option.Label
	})
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      control.Label,
		Options:      labels,
		DefaultIndex: lo.IndexOf(labels, control.Selected()),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(control.Options) {
		return fmt.Errorf("%w: %s index %d", ErrInvalidChoice, control.Name, idx)
	}
	return s.apply(control.Name, control.Options[idx].Value)
}

func (s *Session) apply(name, value string) error {
	return s.workflow.Update(func(state *form.State) error {
		switch name {
		case render.NameControl:
			state.SetName(strings.TrimSpace(value))
			return nil
		case render.SeverityControl:
			return state.SetSeverityText(value)
		default:
			return state.SetField(name, value)
		}
	})
}

func (s *Session) show(ctx context.Context, state submission.State) error {
	out, err := s.renderer.Render(ctx, render.NewView(s.workflow.Form(), state))
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}
