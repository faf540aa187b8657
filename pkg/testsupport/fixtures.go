package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/predict"
)

// Responder writes the stub service reply for one predict call.
type Responder func(w http.ResponseWriter, r *http.Request, body []byte)

// RecordedRequest captures a call received by the stub service.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
	Header    http.Header
	Raw       []byte
	Body      map[string]any
}

// PredictionServer is an httptest-backed stand-in for the prediction service.
// POST /predict is answered by the configured Responder; GET / returns the
// service description.
type PredictionServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responder Responder
}

// NewPredictionServer starts a stub service and registers its shutdown with t.
func NewPredictionServer(t testing.TB, responder Responder) *PredictionServer {
	t.Helper()

	if responder == nil {
		responder = RespondResult(SampleResult())
	}
	srv := &PredictionServer{responder: responder}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", srv.handlePredict)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, SampleServiceInfo())
	})

	srv.Server = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// Endpoint returns the predict URL of the stub.
func (s *PredictionServer) Endpoint() string {
	return s.URL + "/predict"
}

// SetResponder swaps the reply for subsequent calls.
func (s *PredictionServer) SetResponder(responder Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder = responder
}

// Requests returns a copy of the calls received so far.
func (s *PredictionServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *PredictionServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	record := RecordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: r.Header.Get("X-Request-ID"),
		Header:    r.Header.Clone(),
		Raw:       raw,
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		record.Body = body
	}

	s.mu.Lock()
	s.requests = append(s.requests, record)
	responder := s.responder
	s.mu.Unlock()

	responder(w, r, raw)
}

// RespondResult replies 200 with the given result.
func RespondResult(result predict.Result) Responder {
	return func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, result)
	}
}

// RespondError replies with status and an {"error": message} body.
func RespondError(status int, message string) Responder {
	return func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, status, map[string]string{"error": message})
	}
}

// RespondRaw replies with status and a verbatim body.
func RespondRaw(status int, body string) Responder {
	return func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// RespondBlocking waits for release to be closed before delegating to next.
// Each received call is signalled on started.
func RespondBlocking(started chan<- struct{}, release <-chan struct{}, next Responder) Responder {
	return func(w http.ResponseWriter, r *http.Request, body []byte) {
		started <- struct{}{}
		<-release
		next(w, r, body)
	}
}

// SampleResult mirrors the wording of the reference prediction service.
func SampleResult() predict.Result {
	return predict.Result{
		Predictions: predict.Predictions{
			Fatigue:        "41.6% chance of long-term fatigue.",
			Breathlessness: "26.0% chance of breathlessness.",
			BrainFog:       "15.6% chance of brain fog.",
		},
		Disclaimer: "disclaimer:This is a predictive tool and not a medical diagnosis. Always consult healthcare professionals.",
	}
}

// SampleServiceInfo is the body served at GET /.
func SampleServiceInfo() predict.ServiceInfo {
	return predict.ServiceInfo{
		Service: "Post-COVID Symptom Predictor",
		Version: "1.0.0",
		Status:  "operational",
	}
}

// AssertPayload compares a recorded JSON body with the expected integer map.
func AssertPayload(t testing.TB, want map[string]int, got RecordedRequest) {
	t.Helper()

	if got.Body == nil {
		t.Fatalf("request body is not a JSON object: %s", string(got.Raw))
	}
	normalised := make(map[string]int, len(got.Body))
	for key, value := range got.Body {
		number, ok := value.(float64)
		if !ok || number != float64(int(number)) {
			t.Fatalf("payload key %q is not an integer: %v", key, value)
		}
		normalised[key] = int(number)
	}
	if diff := cmp.Diff(want, normalised); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		panic(fmt.Sprintf("testsupport: encode response: %v", err))
	}
}
