package render

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/registry"
	"github.com/goliatone/go-riskform/pkg/submission"
)

// Fixed surface copy.
const (
	Title           = "Post-COVID Symptom Risk Predictor"
	SubmitLabel     = "Predict Risk"
	PendingLabel    = "Predicting..."
	ResultTitle     = "Prediction Results of "
	NameLabel       = "Name"
	NamePlaceholder = "Enter your name"
	SeverityLabel   = "COVID Severity"

	// NameControl and SeverityControl are the input names of the two controls
	// that are not backed by a single registry field.
	NameControl     = "name"
	SeverityControl = form.SeverityInput
)

// ControlType identifies how a control is presented.
type ControlType string

const (
	ControlText    ControlType = "text"
	ControlNumber  ControlType = "number"
	ControlSelect  ControlType = "select"
	ControlButtons ControlType = "buttons"
)

// ControlOption is one entry of a select or button group.
type ControlOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Control is one form input as it should be displayed.
type Control struct {
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Type        ControlType     `json:"type"`
	Value       string          `json:"value"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Options     []ControlOption `json:"options,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// SubmitButton reflects the busy flag.
type SubmitButton struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// ResultPanel is shown after a successful prediction. Lines and Disclaimer
// are the service text, unchanged.
type ResultPanel struct {
	Title      string   `json:"title"`
	Lines      []string `json:"lines"`
	Disclaimer string   `json:"disclaimer"`
}

// ErrorPanel is shown after a failed prediction.
type ErrorPanel struct {
	Message string `json:"message"`
}

// View is everything a surface needs to draw the form screen.
type View struct {
	Title     string       `json:"title"`
	Phase     string       `json:"phase"`
	RequestID string       `json:"request_id,omitempty"`
	Controls  []Control    `json:"controls"`
	Submit    SubmitButton `json:"submit"`
	Result    *ResultPanel `json:"result,omitempty"`
	Error     *ErrorPanel  `json:"error,omitempty"`
}

// NewView projects the form and submission state onto a View. It reads both
// values and never changes them.
func NewView(state *form.State, sub submission.State) View {
	reg := state.Registry()

	view := View{
		Title:     Title,
		Phase:     sub.Phase.String(),
		RequestID: sub.RequestID,
		Submit:    SubmitButton{Label: SubmitLabel, Disabled: sub.Busy},
	}
	if sub.Busy {
		view.Submit.Label = PendingLabel
	}

	view.Controls = append(view.Controls, Control{
		Name:        NameControl,
		Label:       NameLabel,
		Type:        ControlText,
		Value:       state.Name(),
		Placeholder: NamePlaceholder,
	})

	severityAdded := false
	for _, field := range reg.Fields() {
		switch field.Kind {
		case registry.KindSeverity:
			if !severityAdded {
				view.Controls = append(view.Controls, severityControl(state))
				severityAdded = true
			}
		case registry.KindNumeric:
			view.Controls = append(view.Controls, numericControl(state, field))
		default:
			view.Controls = append(view.Controls, selectControl(state, field))
		}
	}

	switch sub.Phase {
	case submission.PhaseSucceeded:
		if sub.Result != nil {
			view.Result = &ResultPanel{
				Title:      ResultTitle + sub.Name,
				Lines:      sub.Result.Predictions.Lines(),
				Disclaimer: sub.Result.Disclaimer,
			}
		}
	case submission.PhaseFailed:
		view.Error = &ErrorPanel{Message: sub.Message}
	}
	return view
}

// Control returns the control with the given input name.
func (v View) Control(name string) (Control, bool) {
	return lo.Find(v.Controls, func(c Control) bool {
		return c.Name == name
	})
}

// Selected returns the label of the selected option, if any.
func (c Control) Selected() string {
	option, ok := lo.Find(c.Options, func(o ControlOption) bool {
		return o.Selected
	})
	if !ok {
		return ""
	}
	return option.Label
}

func numericControl(state *form.State, field registry.Field) Control {
	control := Control{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Type:        ControlNumber,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Error:       state.ErrorFor(field.Name),
	}
	if value, ok := state.Value(field.Name); ok {
		control.Value = strconv.Itoa(value)
	}
	return control
}

func selectControl(state *form.State, field registry.Field) Control {
	value, _ := state.Value(field.Name)
	return Control{
		Name:  field.Name,
		Label: field.DisplayLabel(),
		Type:  ControlSelect,
		Value: strconv.Itoa(value),
		Options: lo.Map(field.Options, func(option registry.Option, _ int) ControlOption {
			return ControlOption{
				Label:    option.Label,
				Value:    strconv.Itoa(option.Value),
				Selected: option.Value == value,
			}
		}),
		Error: state.ErrorFor(field.Name),
	}
}

func severityControl(state *form.State) Control {
	current := state.Severity()
	return Control{
		Name:  SeverityControl,
		Label: SeverityLabel,
		Type:  ControlButtons,
		Value: current.String(),
		Options: lo.Map(form.Severities(), func(level form.Severity, _ int) ControlOption {
			return ControlOption{
				Label:    level.Label(),
				Value:    level.String(),
				Selected: level == current,
			}
		}),
		Error: state.ErrorFor(SeverityControl),
	}
}
