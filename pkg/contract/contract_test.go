package contract_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/contract"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/registry"
	"github.com/goliatone/go-riskform/pkg/testsupport"
)

func TestEmbeddedContractMatchesRegistry(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}

	want := registry.Default().PayloadKeys()
	got := c.RequestFields()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("contract request fields differ from registry (-want +got):\n%s", diff)
	}
	if c.Title() != "Post-COVID Symptom Predictor" {
		t.Fatalf("unexpected title %q", c.Title())
	}
}

func TestValidateRequest(t *testing.T) {
	c := contract.MustLoad()

	valid, _ := json.Marshal(predict.Request{Age: 45, Diabetes: 1, GenderMale: 1, SeveritySevere: 1})
	if err := c.ValidateRequest(valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	if err := c.ValidateRequest([]byte(`{"age": 45}`)); err == nil {
		t.Fatalf("expected missing fields to fail")
	}

	outOfRange, _ := json.Marshal(predict.Request{Diabetes: 2})
	if err := c.ValidateRequest(outOfRange); err == nil {
		t.Fatalf("expected flag value 2 to fail")
	}
}

func TestValidateResultAndError(t *testing.T) {
	c := contract.MustLoad()

	result, _ := json.Marshal(testsupport.SampleResult())
	if err := c.ValidateResult(result); err != nil {
		t.Fatalf("expected sample result to validate, got %v", err)
	}
	if err := c.ValidateResult([]byte(`{"disclaimer":"x"}`)); err == nil {
		t.Fatalf("expected missing predictions to fail")
	}
	if err := c.ValidateResult([]byte(`not json`)); err == nil {
		t.Fatalf("expected invalid JSON to fail")
	}
	if err := c.ValidateError([]byte(`{"error":"invalid age"}`)); err != nil {
		t.Fatalf("expected error body to validate, got %v", err)
	}
}

func TestLoadFromDataRejectsMissingOperation(t *testing.T) {
	doc := []byte(`{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{}}`)
	if _, err := contract.LoadFromData(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without /predict")
	}
}

