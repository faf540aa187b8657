package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/internal/config"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadWithEnv("", env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Endpoint != "http://localhost:5000/predict" {
		t.Fatalf("unexpected default endpoint %q", cfg.Endpoint)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskform.yaml")
	data := strings.Join([]string{
		"endpoint: http://predictor.internal:5000/predict",
		"timeout: 5s",
		"log:",
		"  level: debug",
		"theme:",
		"  variant: dark",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadWithEnv(path, env(map[string]string{
		"RISKFORM_LOG_FORMAT": "json",
		"RISKFORM_LISTEN":     "127.0.0.1:9000",
		"RISKFORM_TIMEOUT":    "2s",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := config.Default()
	want.Endpoint = "http://predictor.internal:5000/predict"
	want.Timeout = 2 * time.Second
	want.Listen = "127.0.0.1:9000"
	want.Log = config.LogConfig{Level: "debug", Format: "json"}
	want.Theme.Variant = "dark"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAcceptsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskform.json")
	if err := os.WriteFile(path, []byte(`{"endpoint": "https://example.com/predict", "timeout": "1m"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadWithEnv(path, env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "https://example.com/predict" || cfg.Timeout != time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"endpoint":  {"RISKFORM_ENDPOINT": "not a url"},
		"level":     {"RISKFORM_LOG_LEVEL": "verbose"},
		"format":    {"RISKFORM_LOG_FORMAT": "xml"},
		"timeout":   {"RISKFORM_TIMEOUT": "soon"},
		"negative":  {"RISKFORM_TIMEOUT": "-1s"},
		"no listen": {"RISKFORM_LISTEN": ""},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.LoadWithEnv("", env(values)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadAcceptsLogLevelAliases(t *testing.T) {
	for _, level := range []string{"warning", "WARN", " Debug ", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg, err := config.LoadWithEnv("", env(map[string]string{
				"RISKFORM_LOG_LEVEL":  level,
				"RISKFORM_LOG_FORMAT": "JSON",
			}))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Log.Level != level {
				t.Fatalf("level should be kept as given, got %q", cfg.Log.Level)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), env(nil)); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
