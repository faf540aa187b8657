package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/registry"
)

var (
	// ErrUnknownField is returned for names the registry does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalidSeverity is returned by SetSeverity for undeclared levels.
	ErrInvalidSeverity = errors.New("form: invalid severity")
)

// SeverityInput is the key under which rejected severity text is recorded.
const SeverityInput = "severity"

var validate = validator.New()

// FieldError is a rejected input for one field. The previous value is kept.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("form: field %s: %s", e.Field, e.Message)
}

// State holds the current clinical values, the severity level, the
// display-only name and the last rejection per field.
type State struct {
	registry *registry.Registry
	values   map[string]int
	severity Severity
	name     string
	errors   map[string]string
}

// New seeds a state with the registry defaults. A nil registry selects
// registry.Default().
func New(reg *registry.Registry) *State {
	if reg == nil {
		reg = registry.Default()
	}
	s := &State{
		registry: reg,
		values:   make(map[string]int),
		errors:   make(map[string]string),
	}
	for _, field := range reg.Fields() {
		if field.Kind == registry.KindSeverity || !field.HasDefault() {
			continue
		}
		s.values[field.Name] = field.Default
	}
	return s
}

// Registry exposes the catalog backing the state.
func (s *State) Registry() *registry.Registry {
	return s.registry
}

// SetField coerces raw into an integer and stores it. Input that is not a
// whole number, or falls outside the field's domain, is rejected with a
// *FieldError and leaves the stored value untouched. An empty age clears it.
// The two severity flags map onto the severity level.
func (s *State) SetField(name, raw string) error {
	field, ok := s.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	trimmed := strings.TrimSpace(raw)
	if field.Kind == registry.KindNumeric && trimmed == "" {
		delete(s.values, name)
		delete(s.errors, name)
		return nil
	}

	value, err := parseValue(field, trimmed)
	if err != nil {
		return s.reject(name, err)
	}

	if field.Kind == registry.KindSeverity {
		s.applySeverityFlag(name, value)
	} else {
		s.values[name] = value
	}
	delete(s.errors, name)
	return nil
}

// CheckField reports whether raw would be accepted by SetField without
// changing the state.
func (s *State) CheckField(name, raw string) error {
	field, ok := s.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	trimmed := strings.TrimSpace(raw)
	if field.Kind == registry.KindNumeric && trimmed == "" {
		return nil
	}
	if _, err := parseValue(field, trimmed); err != nil {
		return &FieldError{Field: name, Message: err.Error()}
	}
	return nil
}

// Apply sets every registry field present in input, in registry order, and
// joins the field errors.
func (s *State) Apply(input map[string]string) error {
	var errs []error
	for _, name := range s.registry.Names() {
		raw, ok := input[name]
		if !ok {
			continue
		}
		if err := s.SetField(name, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetSeverity selects exactly one level. Repeating a call is a no-op.
func (s *State) SetSeverity(level Severity) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSeverity, int(level))
	}
	s.severity = level
	return nil
}

// SetSeverityText parses a level name (mild, moderate, severe) and selects
// it. Unknown names are recorded as a rejection under SeverityInput and keep
// the current level.
func (s *State) SetSeverityText(raw string) error {
	level, err := ParseSeverity(raw)
	if err != nil {
		return s.reject(SeverityInput, errors.New("must be mild, moderate or severe"))
	}
	delete(s.errors, SeverityInput)
	return s.SetSeverity(level)
}

// Severity returns the selected level.
func (s *State) Severity() Severity {
	return s.severity
}

// SetName stores the label shown on the results panel. It is never sent.
func (s *State) SetName(value string) {
	s.name = value
}

// Name returns the display-only label.
func (s *State) Name() string {
	return s.name
}

// Value returns the integer stored for a field. Severity flags are derived
// from the level. The bool is false for unknown fields and an unset age.
func (s *State) Value(name string) (int, bool) {
	switch name {
	case registry.FieldSeverityModerate:
		moderate, _ := s.severity.Flags()
		return moderate, true
	case registry.FieldSeveritySevere:
		_, severe := s.severity.Flags()
		return severe, true
	}
	value, ok := s.values[name]
	return value, ok
}

// AgeSet reports whether an age has been entered.
func (s *State) AgeSet() bool {
	_, ok := s.values[registry.FieldAge]
	return ok
}

// Values returns every registry field with its wire value. Unset fields
// serialise as 0.
func (s *State) Values() map[string]int {
	out := make(map[string]int, len(s.values)+2)
	for _, name := range s.registry.Names() {
		value, _ := s.Value(name)
		out[name] = value
	}
	return out
}

// Payload builds the request body. The name is not part of it.
func (s *State) Payload() predict.Request {
	v := s.Values()
	return predict.Request{
		Age:              v[registry.FieldAge],
		Diabetes:         v[registry.FieldDiabetes],
		Hypertension:     v[registry.FieldHypertension],
		Fatigue:          v[registry.FieldFatigue],
		Breathlessness:   v[registry.FieldBreathlessness],
		BrainFog:         v[registry.FieldBrainFog],
		JointPain:        v[registry.FieldJointPain],
		GenderMale:       v[registry.FieldGenderMale],
		SeverityModerate: v[registry.FieldSeverityModerate],
		SeveritySevere:   v[registry.FieldSeveritySevere],
	}
}

// Missing lists required fields without a value.
func (s *State) Missing() []string {
	var missing []string
	for _, name := range s.registry.Required() {
		if _, ok := s.Value(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// CheckRequired records an "is required" rejection for every required field
// without a value and joins them. A field that already carries a rejection
// keeps its message.
func (s *State) CheckRequired() error {
	var errs []error
	for _, name := range s.Missing() {
		if msg, ok := s.errors[name]; ok {
			errs = append(errs, &FieldError{Field: name, Message: msg})
			continue
		}
		errs = append(errs, s.reject(name, errors.New("is required")))
	}
	return errors.Join(errs...)
}

// Errors returns a copy of the current field rejections.
func (s *State) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// ErrorFor returns the rejection message for a field, if any.
func (s *State) ErrorFor(name string) string {
	return s.errors[name]
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	clone := &State{
		registry: s.registry,
		values:   make(map[string]int, len(s.values)),
		severity: s.severity,
		name:     s.name,
		errors:   s.Errors(),
	}
	for k, v := range s.values {
		clone.values[k] = v
	}
	return clone
}

func (s *State) reject(name string, cause error) error {
	fieldErr := &FieldError{Field: name, Message: cause.Error()}
	s.errors[name] = fieldErr.Message
	return fieldErr
}

func (s *State) applySeverityFlag(name string, value int) {
	target := SeverityModerate
	if name == registry.FieldSeveritySevere {
		target = SeveritySevere
	}
	switch {
	case value == 1:
		s.severity = target
	case s.severity == target:
		s.severity = SeverityMild
	}
}

func parseValue(field registry.Field, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be a whole number")
	}
	if err := validate.Var(value, ruleFor(field.Kind)); err != nil {
		return 0, errors.New(messageFor(field.Kind, err))
	}
	return value, nil
}

func ruleFor(kind registry.Kind) string {
	if kind == registry.KindNumeric {
		return "min=0"
	}
	return "oneof=0 1"
}

func messageFor(kind registry.Kind, err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "min":
			return "must not be negative"
		case "oneof":
			return "must be 0 or 1"
		}
	}
	if kind == registry.KindNumeric {
		return "must not be negative"
	}
	return "must be 0 or 1"
}
