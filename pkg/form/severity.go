package form

import (
	"fmt"
	"strings"
)

// Severity is the COVID episode severity. Mild is the zero value, so a fresh
// state carries neither wire flag.
type Severity int

const (
	SeverityMild Severity = iota
	SeverityModerate
	SeveritySevere
)

// Severities lists the levels in display order.
func Severities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere}
}

// ParseSeverity accepts mild, moderate or severe in any case.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mild":
		return SeverityMild, nil
	case "moderate":
		return SeverityModerate, nil
	case "severe":
		return SeveritySevere, nil
	default:
		return SeverityMild, fmt.Errorf("form: unknown severity %q", raw)
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "mild"
	}
}

// Label is the button caption.
func (s Severity) Label() string {
	switch s {
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	default:
		return "Mild"
	}
}

// Flags returns the severity_Moderate and severity_Severe wire values.
func (s Severity) Flags() (moderate, severe int) {
	switch s {
	case SeverityModerate:
		return 1, 0
	case SeveritySevere:
		return 0, 1
	default:
		return 0, 0
	}
}

// Valid reports whether s is one of the three declared levels.
func (s Severity) Valid() bool {
	return s >= SeverityMild && s <= SeveritySevere
}
