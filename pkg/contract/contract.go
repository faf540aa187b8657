package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed prediction.openapi.yaml
var embeddedDocument []byte

const (
	schemaRequest = "PredictionRequest"
	schemaResult  = "PredictionResult"
	schemaError   = "Error"
	predictPath   = "/predict"
)

// Contract is the parsed OpenAPI description of the prediction service.
type Contract struct {
	doc     *openapi3.T
	request *openapi3.Schema
	result  *openapi3.Schema
	failure *openapi3.Schema
}

// Document returns the embedded OpenAPI document bytes.
func Document() []byte {
	return append([]byte(nil), embeddedDocument...)
}

// Load parses the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, embeddedDocument)
}

// LoadFromData parses and validates a JSON or YAML OpenAPI 3 document that
// declares the predict operation and its schemas.
func LoadFromData(ctx context.Context, data []byte) (*Contract, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Find(predictPath) == nil || doc.Paths.Find(predictPath).Post == nil {
		return nil, fmt.Errorf("contract: document does not declare POST %s", predictPath)
	}

	c := &Contract{doc: doc}
	if c.request, err = componentSchema(doc, schemaRequest); err != nil {
		return nil, err
	}
	if c.result, err = componentSchema(doc, schemaResult); err != nil {
		return nil, err
	}
	if c.failure, err = componentSchema(doc, schemaError); err != nil {
		return nil, err
	}
	return c, nil
}

// MustLoad panics when the embedded document is invalid.
func MustLoad() *Contract {
	c, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return c
}

// Title reports the service title declared by the document.
func (c *Contract) Title() string {
	if c == nil || c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Title
}

// RequestFields lists the request body properties, sorted.
func (c *Contract) RequestFields() []string {
	if c == nil {
		return nil
	}
	fields := make([]string, 0, len(c.request.Properties))
	for name := range c.request.Properties {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// ValidateRequest checks an outbound JSON body.
func (c *Contract) ValidateRequest(body []byte) error {
	return visit(c.request, schemaRequest, body)
}

// ValidateResult checks a successful response body.
func (c *Contract) ValidateResult(body []byte) error {
	return visit(c.result, schemaResult, body)
}

// ValidateError checks an error response body.
func (c *Contract) ValidateError(body []byte) error {
	return visit(c.failure, schemaError, body)
}

func visit(schema *openapi3.Schema, name string, body []byte) error {
	if schema == nil {
		return fmt.Errorf("contract: schema %s not loaded", name)
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("contract: %s: decode body: %w", name, err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("contract: %s: %w", name, err)
	}
	return nil
}

func componentSchema(doc *openapi3.T, name string) (*openapi3.Schema, error) {
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("contract: schema %s missing", name)
	}
	return ref.Value, nil
}
