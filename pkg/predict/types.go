package predict

// Request is the JSON body posted to the prediction service. Keys match the
// registry field names exactly and every value is an integer.
type Request struct {
	Age              int `json:"age"`
	Diabetes         int `json:"diabetes"`
	Hypertension     int `json:"hypertension"`
	Fatigue          int `json:"fatigue"`
	Breathlessness   int `json:"breathlessness"`
	BrainFog         int `json:"brain_fog"`
	JointPain        int `json:"joint_pain"`
	GenderMale       int `json:"gender_Male"`
	SeverityModerate int `json:"severity_Moderate"`
	SeveritySevere   int `json:"severity_Severe"`
}

// Predictions maps each tracked symptom to the verdict text supplied by the
// service. The text is displayed as-is.
type Predictions struct {
	Fatigue        string `json:"fatigue"`
	Breathlessness string `json:"breathlessness"`
	BrainFog       string `json:"brain_fog"`
}

// Lines returns the verdicts in display order.
func (p Predictions) Lines() []string {
	return []string{p.Fatigue, p.Breathlessness, p.BrainFog}
}

// Result is the successful response payload.
type Result struct {
	Predictions Predictions `json:"predictions"`
	Disclaimer  string      `json:"disclaimer"`
}

// ServiceInfo is returned by the service root endpoint.
type ServiceInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type errorBody struct {
	Error *string `json:"error"`
}

type resultBody struct {
	Predictions *Predictions `json:"predictions"`
	Disclaimer  string       `json:"disclaimer"`
}
