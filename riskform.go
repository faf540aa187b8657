package riskform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/goliatone/go-riskform/pkg/contract"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/registry"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
	"github.com/goliatone/go-riskform/pkg/submission"
)

// Result aliases predict.Result for callers that only need the facade.
type Result = predict.Result

// Request aliases the wire payload.
type Request = predict.Request

// SubmissionState aliases the observable workflow state.
type SubmissionState = submission.State

// ClientConfig groups the settings needed to reach the prediction service.
type ClientConfig struct {
	Endpoint       string
	StatusEndpoint string
	Timeout        time.Duration
	// SkipContract disables response validation against the embedded
	// OpenAPI document.
	SkipContract bool
}

// NewClient builds an HTTP prediction client. Unless SkipContract is set,
// payloads, successful responses and error bodies are checked against the
// embedded contract, and the contract's request fields must match the field
// registry.
func NewClient(ctx context.Context, cfg ClientConfig, options ...predict.Option) (*predict.HTTPClient, error) {
	opts := []predict.Option{
		predict.WithEndpoint(cfg.Endpoint),
		predict.WithStatusEndpoint(cfg.StatusEndpoint),
		predict.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if !cfg.SkipContract {
		doc, err := contract.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("riskform: %w", err)
		}
		if err := checkPayloadKeys(doc.RequestFields(), registry.Default().PayloadKeys()); err != nil {
			return nil, err
		}
		opts = append(opts,
			predict.WithRequestValidator(doc),
			predict.WithResultValidator(doc),
			predict.WithErrorValidator(doc),
		)
	}
	return predict.NewHTTPClient(append(opts, options...)...), nil
}

func checkPayloadKeys(contractFields, registryKeys []string) error {
	onlyContract, onlyRegistry := lo.Difference(contractFields, registryKeys)
	if len(onlyContract) == 0 && len(onlyRegistry) == 0 {
		return nil
	}
	return fmt.Errorf("riskform: contract and field registry disagree: contract only %v, registry only %v",
		onlyContract, onlyRegistry)
}

// NewWorkflow binds a fresh form to client.
func NewWorkflow(client predict.Client, options ...submission.Option) (*submission.Workflow, error) {
	return submission.New(client, form.New(nil), options...)
}

// NewRenderers registers the HTML and text renderers. The HTML renderer is
// configured with options.
func NewRenderers(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(tui.New()); err != nil {
		return nil, err
	}
	return registry, nil
}
