package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Kind classifies how a field is entered and which values it accepts.
type Kind string

const (
	// KindNumeric is a free integer input (age).
	KindNumeric Kind = "numeric"
	// KindFlag is a yes/no select encoded as 0/1.
	KindFlag Kind = "flag"
	// KindGender is the binary gender select; 1 encodes "male".
	KindGender Kind = "gender"
	// KindSeverity marks one of the two wire flags backing the severity level.
	KindSeverity Kind = "severity"
)

// Canonical field identifiers. They double as the JSON keys sent to the
// prediction service.
const (
	FieldAge              = "age"
	FieldDiabetes         = "diabetes"
	FieldHypertension     = "hypertension"
	FieldFatigue          = "fatigue"
	FieldBreathlessness   = "breathlessness"
	FieldBrainFog         = "brain_fog"
	FieldJointPain        = "joint_pain"
	FieldGenderMale       = "gender_Male"
	FieldSeverityModerate = "severity_Moderate"
	FieldSeveritySevere   = "severity_Severe"
)

var errEmptyName = errors.New("registry: field name is required")

// Option is one selectable choice of a flag or gender field.
type Option struct {
	Label string
	Value int
}

// Field describes one clinical input.
type Field struct {
	Name        string
	Kind        Kind
	Default     int
	Required    bool
	Label       string
	Placeholder string
	Options     []Option
}

// DisplayLabel returns the explicit label or, when absent, the derived display
// name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return DisplayName(f.Name)
}

// HasDefault reports whether the field starts with a value. Numeric fields
// start unset.
func (f Field) HasDefault() bool {
	return f.Kind != KindNumeric
}

// Registry is an ordered, immutable field catalog.
type Registry struct {
	fields []Field
	index  map[string]int
}

// New builds a registry preserving the declaration order of fields.
func New(fields ...Field) (*Registry, error) {
	reg := &Registry{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, errEmptyName
		}
		if _, exists := reg.index[name]; exists {
			return nil, fmt.Errorf("registry: duplicate field %q", name)
		}
		field.Name = name
		field.Options = append([]Option(nil), field.Options...)
		reg.index[name] = len(reg.fields)
		reg.fields = append(reg.fields, field)
	}
	return reg, nil
}

// MustNew panics when the catalog is invalid. Useful for package-level wiring.
func MustNew(fields ...Field) *Registry {
	reg, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return reg
}

var defaultRegistry = MustNew(defaultFields()...)

// Default returns the post-COVID risk form catalog.
func Default() *Registry {
	return defaultRegistry
}

// Fields returns a copy of every field in declaration order.
func (r *Registry) Fields() []Field {
	if r == nil {
		return nil
	}
	return lo.Map(r.fields, func(field Field, _ int) Field {
		field.Options = append([]Option(nil), field.Options...)
		return field
	})
}

// Lookup resolves a field by name.
func (r *Registry) Lookup(name string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	idx, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	field := r.fields[idx]
	field.Options = append([]Option(nil), field.Options...)
	return field, true
}

// Names lists field names in declaration order.
func (r *Registry) Names() []string {
	return lo.Map(r.Fields(), func(field Field, _ int) string {
		return field.Name
	})
}

// PayloadKeys lists the wire keys of every field in lexical order, the form
// in which they appear in the service contract.
func (r *Registry) PayloadKeys() []string {
	keys := r.Names()
	sort.Strings(keys)
	return keys
}

// FieldsOfKind filters the catalog by kind, keeping declaration order.
func (r *Registry) FieldsOfKind(kind Kind) []Field {
	return lo.Filter(r.Fields(), func(field Field, _ int) bool {
		return field.Kind == kind
	})
}

// FlagFields returns the yes/no symptom and condition fields.
func (r *Registry) FlagFields() []Field {
	return r.FieldsOfKind(KindFlag)
}

// Required lists the names of fields marked as required.
func (r *Registry) Required() []string {
	required := lo.Filter(r.Fields(), func(field Field, _ int) bool {
		return field.Required
	})
	return lo.Map(required, func(field Field, _ int) string {
		return field.Name
	})
}

// DisplayName turns a raw identifier into a label: underscores become spaces
// and every word starts with an upper-case letter.
func DisplayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func yesNo() []Option {
	return []Option{
		{Label: "No", Value: 0},
		{Label: "Yes", Value: 1},
	}
}

func defaultFields() []Field {
	flag := func(name string) Field {
		return Field{Name: name, Kind: KindFlag, Default: 0, Options: yesNo()}
	}
	return []Field{
		{
			Name:        FieldAge,
			Kind:        KindNumeric,
			Required:    true,
			Label:       "Age",
			Placeholder: "Enter your age",
		},
		flag(FieldDiabetes),
		flag(FieldHypertension),
		flag(FieldFatigue),
		flag(FieldBreathlessness),
		flag(FieldBrainFog),
		flag(FieldJointPain),
		{
			Name:    FieldGenderMale,
			Kind:    KindGender,
			Default: 1,
			Label:   "Gender",
			Options: []Option{
				{Label: "Male", Value: 1},
				{Label: "Female", Value: 0},
			},
		},
		{Name: FieldSeverityModerate, Kind: KindSeverity, Default: 0},
		{Name: FieldSeveritySevere, Kind: KindSeverity, Default: 0},
	}
}
