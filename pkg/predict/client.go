package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultEndpoint is the local development address of the prediction service.
const DefaultEndpoint = "http://localhost:5000/predict"

const (
	tracerName      = "github.com/goliatone/go-riskform/pkg/predict"
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// Client submits one payload and returns the service verdict.
type Client interface {
	Predict(ctx context.Context, req Request) (Result, error)
}

// StatusChecker reports the service's self-description.
type StatusChecker interface {
	Status(ctx context.Context) (ServiceInfo, error)
}

// ResultValidator checks raw response bodies against a published contract.
type ResultValidator interface {
	ValidateResult(body []byte) error
}

// RequestValidator checks an encoded payload before it is sent.
type RequestValidator interface {
	ValidateRequest(body []byte) error
}

// ErrorValidator checks non-2xx bodies. A body it rejects is treated as
// carrying no structured message.
type ErrorValidator interface {
	ValidateError(body []byte) error
}

// Option configures the HTTP client.
type Option func(*HTTPClient)

// WithEndpoint overrides the predict URL.
func WithEndpoint(endpoint string) Option {
	return func(c *HTTPClient) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithStatusEndpoint overrides the URL used by Status. When omitted the root
// of the predict endpoint's host is used.
func WithStatusEndpoint(endpoint string) Option {
	return func(c *HTTPClient) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.statusEndpoint = trimmed
		}
	}
}

// WithHTTPClient swaps the transport. Timeouts, when wanted, belong here.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithResultValidator checks successful bodies before decoding them.
func WithResultValidator(v ResultValidator) Option {
	return func(c *HTTPClient) {
		c.validator = v
	}
}

// WithRequestValidator checks outbound bodies. A rejected payload is never
// sent and Predict returns ErrInvalidRequest.
func WithRequestValidator(v RequestValidator) Option {
	return func(c *HTTPClient) {
		c.requestValidator = v
	}
}

// WithErrorValidator checks error bodies before their message is trusted.
func WithErrorValidator(v ErrorValidator) Option {
	return func(c *HTTPClient) {
		c.errorValidator = v
	}
}

// WithTracerProvider overrides the global OpenTelemetry provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *HTTPClient) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// HTTPClient talks JSON over HTTP to the prediction service.
type HTTPClient struct {
	endpoint         string
	statusEndpoint   string
	http             *http.Client
	validator        ResultValidator
	requestValidator RequestValidator
	errorValidator   ErrorValidator
	tracer           trace.Tracer
}

var (
	_ Client        = (*HTTPClient)(nil)
	_ StatusChecker = (*HTTPClient)(nil)
)

// NewHTTPClient builds a client with defaults (DefaultEndpoint,
// http.DefaultClient, global tracer).
func NewHTTPClient(options ...Option) *HTTPClient {
	c := &HTTPClient{
		endpoint: DefaultEndpoint,
		http:     http.DefaultClient,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Endpoint reports the configured predict URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Predict posts the request and classifies the outcome: *TransportError when
// no response arrived, *ServiceError for non-2xx statuses and
// ErrMalformedResponse for unexpected success bodies.
func (c *HTTPClient) Predict(ctx context.Context, req Request) (result Result, err error) {
	ctx, span := c.tracer.Start(ctx, "predict.Predict",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", c.endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("predict: encode request: %w", err)
	}
	if c.requestValidator != nil {
		if err := c.requestValidator.ValidateRequest(payload); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set(requestIDHeader, id)
		span.SetAttributes(attribute.String("riskform.request_id", id))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	status, body, err := c.do(httpReq)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status < 200 || status >= 300 {
		return Result{}, c.decodeServiceError(status, body)
	}
	return c.decodeResult(body)
}

// Status fetches the service description from the root endpoint.
func (c *HTTPClient) Status(ctx context.Context) (ServiceInfo, error) {
	target := c.statusEndpoint
	if target == "" {
		root, err := rootURL(c.endpoint)
		if err != nil {
			return ServiceInfo{}, err
		}
		target = root
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ServiceInfo{}, &TransportError{Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")

	status, body, err := c.do(httpReq)
	if err != nil {
		return ServiceInfo{}, err
	}
	if status < 200 || status >= 300 {
		return ServiceInfo{}, c.decodeServiceError(status, body)
	}

	var info ServiceInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ServiceInfo{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return info, nil
}

func (c *HTTPClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	return resp.StatusCode, body, nil
}

func (c *HTTPClient) decodeResult(body []byte) (Result, error) {
	if c.validator != nil {
		if err := c.validator.ValidateResult(body); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	var decoded resultBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if decoded.Predictions == nil {
		return Result{}, fmt.Errorf("%w: predictions missing", ErrMalformedResponse)
	}
	return Result{
		Predictions: *decoded.Predictions,
		Disclaimer:  decoded.Disclaimer,
	}, nil
}

func (c *HTTPClient) decodeServiceError(status int, body []byte) error {
	svcErr := &ServiceError{StatusCode: status}
	if c.errorValidator != nil {
		if err := c.errorValidator.ValidateError(body); err != nil {
			return svcErr
		}
	}
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil {
		svcErr.Message = *decoded.Error
	}
	return svcErr
}

func rootURL(endpoint string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("predict: parse endpoint: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("predict: endpoint must be an absolute URL")
	}
	parsed.Path = "/"
	parsed.RawPath = ""
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), nil
}
