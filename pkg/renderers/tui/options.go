package tui

import "log/slog"

// Theme captures optional prefixes applied to printed messages. Keep minimal
// to avoid coupling output to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme marks failures so they stand out in plain terminals.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "Error: "}
}

type settings struct {
	driver PromptDriver
	theme  Theme
	logger *slog.Logger
	repeat bool
}

// Option configures the terminal renderer and session.
type Option func(*settings)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		s.theme = theme
	}
}

// WithLogger routes session logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRepeat controls whether the session offers another prediction after
// each result. Enabled by default.
func WithRepeat(enabled bool) Option {
	return func(s *settings) {
		s.repeat = enabled
	}
}

func newSettings(options []Option) settings {
	s := settings{theme: DefaultTheme(), repeat: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return s
}
