package registry_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/registry"
)

func TestDefaultRegistryOrderAndDefaults(t *testing.T) {
	reg := registry.Default()

	wantNames := []string{
		"age", "diabetes", "hypertension", "fatigue", "breathlessness",
		"brain_fog", "joint_pain", "gender_Male", "severity_Moderate", "severity_Severe",
	}
	if diff := cmp.Diff(wantNames, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	gender, ok := reg.Lookup(registry.FieldGenderMale)
	if !ok {
		t.Fatalf("gender field missing")
	}
	if gender.Default != 1 || gender.Kind != registry.KindGender {
		t.Fatalf("unexpected gender field: %+v", gender)
	}

	age, _ := reg.Lookup(registry.FieldAge)
	if !age.Required || age.HasDefault() {
		t.Fatalf("age must be required and start unset: %+v", age)
	}

	if diff := cmp.Diff([]string{"age"}, reg.Required()); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	flags := reg.FlagFields()
	if len(flags) != 6 {
		t.Fatalf("expected 6 flag fields, got %d", len(flags))
	}
	for _, field := range flags {
		if field.Default != 0 {
			t.Fatalf("flag %s should default to 0", field.Name)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	reg := registry.Default()
	field, _ := reg.Lookup(registry.FieldDiabetes)
	field.Options[0].Label = "mutated"

	again, _ := reg.Lookup(registry.FieldDiabetes)
	if again.Options[0].Label != "No" {
		t.Fatalf("registry leaked internal option slice")
	}
}

func TestNewRejectsDuplicatesAndEmptyNames(t *testing.T) {
	if _, err := registry.New(registry.Field{Name: "a"}, registry.Field{Name: "a"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := registry.New(registry.Field{Name: "  "}); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"brain_fog":         "Brain Fog",
		"joint_pain":        "Joint Pain",
		"diabetes":          "Diabetes",
		"gender_Male":       "Gender Male",
		"severity_Moderate": "Severity Moderate",
		"":                  "",
	}
	for in, want := range cases {
		if got := registry.DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
		if registry.DisplayName(in) != registry.DisplayName(in) {
			t.Errorf("DisplayName(%q) not deterministic", in)
		}
	}
}

func TestDisplayLabelPrefersExplicitLabel(t *testing.T) {
	reg := registry.Default()
	gender, _ := reg.Lookup(registry.FieldGenderMale)
	if got := gender.DisplayLabel(); got != "Gender" {
		t.Fatalf("expected explicit label, got %q", got)
	}
	fog, _ := reg.Lookup(registry.FieldBrainFog)
	if got := fog.DisplayLabel(); got != "Brain Fog" {
		t.Fatalf("expected derived label, got %q", got)
	}
}
