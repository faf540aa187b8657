package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/registry"
)

func TestNewStateUsesRegistryDefaults(t *testing.T) {
	s := form.New(nil)

	want := predict.Request{GenderMale: 1}
	if diff := cmp.Diff(want, s.Payload()); diff != "" {
		t.Fatalf("default payload mismatch (-want +got):\n%s", diff)
	}
	if s.AgeSet() {
		t.Fatalf("age should start unset")
	}
	if s.Severity() != form.SeverityMild {
		t.Fatalf("severity should start mild")
	}
	if diff := cmp.Diff([]string{"age"}, s.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFieldScenario(t *testing.T) {
	s := form.New(nil)
	s.SetName("Ada")

	for name, raw := range map[string]string{"age": "45", "diabetes": "1", "fatigue": " 1 "} {
		if err := s.SetField(name, raw); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if err := s.SetSeverity(form.SeveritySevere); err != nil {
		t.Fatalf("set severity: %v", err)
	}

	want := predict.Request{
		Age:            45,
		Diabetes:       1,
		Fatigue:        1,
		GenderMale:     1,
		SeveritySevere: 1,
	}
	if diff := cmp.Diff(want, s.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if len(s.Missing()) != 0 {
		t.Fatalf("age should no longer be missing")
	}
}

func TestSetFieldRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		field string
		raw   string
		msg   string
	}{
		{field: "age", raw: "forty", msg: "must be a whole number"},
		{field: "age", raw: "-3", msg: "must not be negative"},
		{field: "age", raw: "4.5", msg: "must be a whole number"},
		{field: "diabetes", raw: "2", msg: "must be 0 or 1"},
		{field: "gender_Male", raw: "", msg: "must be a whole number"},
		{field: "severity_Severe", raw: "5", msg: "must be 0 or 1"},
	}

	for _, tc := range cases {
		t.Run(tc.field+"/"+tc.raw, func(t *testing.T) {
			s := form.New(nil)
			_ = s.SetField("age", "30")
			before := s.Values()

			err := s.SetField(tc.field, tc.raw)
			var fieldErr *form.FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fieldErr.Field != tc.field || fieldErr.Message != tc.msg {
				t.Fatalf("unexpected field error: %+v", fieldErr)
			}
			if s.ErrorFor(tc.field) != tc.msg {
				t.Fatalf("error not recorded on state: %v", s.Errors())
			}
			if diff := cmp.Diff(before, s.Values()); diff != "" {
				t.Fatalf("rejected input changed values (-before +after):\n%s", diff)
			}
			if err := s.CheckField(tc.field, tc.raw); err == nil {
				t.Fatalf("CheckField should reject %q", tc.raw)
			}
		})
	}
}

func TestSetFieldClearsErrorOnValidInput(t *testing.T) {
	s := form.New(nil)
	_ = s.SetField("age", "abc")
	if s.ErrorFor("age") == "" {
		t.Fatalf("expected recorded error")
	}
	if err := s.SetField("age", "52"); err != nil {
		t.Fatalf("set age: %v", err)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected errors cleared, got %v", s.Errors())
	}
	if err := s.SetField("age", ""); err != nil {
		t.Fatalf("clear age: %v", err)
	}
	if s.AgeSet() {
		t.Fatalf("empty input should unset age")
	}
}

func TestSetFieldUnknown(t *testing.T) {
	s := form.New(nil)
	if err := s.SetField("name", "Ada"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestValuesAreAlwaysIntegers(t *testing.T) {
	s := form.New(nil)
	inputs := []struct{ name, raw string }{
		{"age", "x"}, {"age", "61"}, {"brain_fog", "yes"}, {"brain_fog", "1"},
		{"joint_pain", "1"}, {"gender_Male", "0"}, {"severity_Moderate", "1"},
		{"hypertension", " "}, {"severity_Severe", "1"},
	}
	for _, in := range inputs {
		_ = s.SetField(in.name, in.raw)
		values := s.Values()
		if diff := cmp.Diff(registry.Default().Names(), keys(values, registry.Default().Names())); diff != "" {
			t.Fatalf("values lost keys after %s=%q:\n%s", in.name, in.raw, diff)
		}
		moderate, severe := values["severity_Moderate"], values["severity_Severe"]
		if moderate+severe > 1 {
			t.Fatalf("both severity flags set after %s=%q", in.name, in.raw)
		}
	}
}

func TestSetSeverityExclusiveAndIdempotent(t *testing.T) {
	cases := map[form.Severity][2]int{
		form.SeverityMild:     {0, 0},
		form.SeverityModerate: {1, 0},
		form.SeveritySevere:   {0, 1},
	}
	for level, flags := range cases {
		s := form.New(nil)
		for i := 0; i < 3; i++ {
			if err := s.SetSeverity(level); err != nil {
				t.Fatalf("set %s: %v", level, err)
			}
			p := s.Payload()
			if p.SeverityModerate != flags[0] || p.SeveritySevere != flags[1] {
				t.Fatalf("%s call %d: got moderate=%d severe=%d", level, i, p.SeverityModerate, p.SeveritySevere)
			}
		}
	}

	s := form.New(nil)
	if err := s.SetSeverity(form.Severity(9)); !errors.Is(err, form.ErrInvalidSeverity) {
		t.Fatalf("expected ErrInvalidSeverity, got %v", err)
	}
}

func TestSeverityFlagEditsMapOntoLevel(t *testing.T) {
	s := form.New(nil)
	_ = s.SetField("severity_Moderate", "1")
	if s.Severity() != form.SeverityModerate {
		t.Fatalf("expected moderate, got %s", s.Severity())
	}
	_ = s.SetField("severity_Severe", "1")
	if s.Severity() != form.SeveritySevere {
		t.Fatalf("expected severe, got %s", s.Severity())
	}
	_ = s.SetField("severity_Moderate", "0")
	if s.Severity() != form.SeveritySevere {
		t.Fatalf("clearing inactive flag must not change level")
	}
	_ = s.SetField("severity_Severe", "0")
	if s.Severity() != form.SeverityMild {
		t.Fatalf("clearing active flag should revert to mild")
	}
}

func TestApplyJoinsErrors(t *testing.T) {
	s := form.New(nil)
	err := s.Apply(map[string]string{
		"age":          "abc",
		"diabetes":     "1",
		"hypertension": "7",
		"unrelated":    "ignored",
	})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if got, _ := s.Value("diabetes"); got != 1 {
		t.Fatalf("valid field should still apply")
	}
	if diff := cmp.Diff(map[string]string{
		"age":          "must be a whole number",
		"hypertension": "must be 0 or 1",
	}, s.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := form.New(nil)
	_ = s.SetField("age", "40")
	s.SetName("Ada")

	clone := s.Clone()
	_ = s.SetField("age", "41")
	s.SetName("Grace")

	if got, _ := clone.Value("age"); got != 40 {
		t.Fatalf("clone shares values: %d", got)
	}
	if clone.Name() != "Ada" {
		t.Fatalf("clone shares name")
	}
}

func TestParseSeverity(t *testing.T) {
	for _, level := range form.Severities() {
		got, err := form.ParseSeverity(level.Label())
		if err != nil || got != level {
			t.Fatalf("ParseSeverity(%q) = %v, %v", level.Label(), got, err)
		}
	}
	if _, err := form.ParseSeverity("critical"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func keys(values map[string]int, order []string) []string {
	out := make([]string, 0, len(values))
	for _, name := range order {
		if _, ok := values[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func TestSetSeverityText(t *testing.T) {
	s := form.New(nil)

	if err := s.SetSeverityText("Moderate"); err != nil {
		t.Fatalf("set moderate: %v", err)
	}
	if s.Severity() != form.SeverityModerate {
		t.Fatalf("expected moderate, got %s", s.Severity())
	}

	err := s.SetSeverityText("critical")
	var fieldErr *form.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != form.SeverityInput {
		t.Fatalf("expected severity field error, got %v", err)
	}
	if s.Severity() != form.SeverityModerate {
		t.Fatalf("rejected text must keep the level, got %s", s.Severity())
	}
	if s.ErrorFor(form.SeverityInput) == "" {
		t.Fatalf("expected recorded severity error")
	}

	if err := s.SetSeverityText("mild"); err != nil {
		t.Fatalf("set mild: %v", err)
	}
	if s.ErrorFor(form.SeverityInput) != "" {
		t.Fatalf("accepted text should clear the error")
	}
}

func TestCheckRequired(t *testing.T) {
	s := form.New(nil)

	err := s.CheckRequired()
	var fieldErr *form.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != registry.FieldAge {
		t.Fatalf("expected age field error, got %v", err)
	}
	if s.ErrorFor(registry.FieldAge) != "is required" {
		t.Fatalf("unexpected age error %q", s.ErrorFor(registry.FieldAge))
	}

	if err := s.SetField(registry.FieldAge, "0"); err != nil {
		t.Fatalf("set age: %v", err)
	}
	if err := s.CheckRequired(); err != nil {
		t.Fatalf("expected no missing fields, got %v", err)
	}
	if s.ErrorFor(registry.FieldAge) != "" {
		t.Fatalf("accepted value should clear the error")
	}

	bad := form.New(nil)
	_ = bad.SetField(registry.FieldAge, "forty")
	if err := bad.CheckRequired(); err == nil {
		t.Fatalf("rejected age must still count as missing")
	}
	if got := bad.ErrorFor(registry.FieldAge); got == "is required" || got == "" {
		t.Fatalf("expected the parse error to be kept, got %q", got)
	}
}
