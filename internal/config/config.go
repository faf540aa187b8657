package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-riskform/pkg/predict"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RISKFORM_"

// Config holds the runtime settings shared by both binaries.
type Config struct {
	Endpoint       string        `yaml:"endpoint" validate:"required,url"`
	StatusEndpoint string        `yaml:"status_endpoint" validate:"omitempty,url"`
	Timeout        time.Duration `yaml:"timeout" validate:"gte=0"`
	Listen         string        `yaml:"listen" validate:"required"`
	Log            LogConfig     `yaml:"log"`
	Theme          ThemeConfig   `yaml:"theme"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"loglevel"`
	Format string `yaml:"format" validate:"logformat"`
}

// ThemeConfig picks the HTML theme and variant.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// Accepted log settings, compared case-insensitively. An empty value selects
// the logging default.
var (
	LogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	LogFormats = []string{"text", "json"}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", oneOfFold(LogLevels))
	_ = v.RegisterValidation("logformat", oneOfFold(LogFormats))
	return v
}

func oneOfFold(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		return value == "" || lo.Contains(allowed, value)
	}
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Endpoint: predict.DefaultEndpoint,
		Timeout:  30 * time.Second,
		Listen:   ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads defaults, then the optional YAML file at path, then the
// RISKFORM_* environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if lookup != nil {
		if err := applyEnv(&cfg, lookup); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML (or JSON, which YAML accepts) over cfg. Keys absent
// from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: target is nil")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field formats.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config: invalid %s (%s)", strings.ToLower(first.Namespace()), first.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	overrides := map[string]*string{
		"ENDPOINT":        &cfg.Endpoint,
		"STATUS_ENDPOINT": &cfg.StatusEndpoint,
		"LISTEN":          &cfg.Listen,
		"LOG_LEVEL":       &cfg.Log.Level,
		"LOG_FORMAT":      &cfg.Log.Format,
		"THEME":           &cfg.Theme.Name,
		"THEME_VARIANT":   &cfg.Theme.Variant,
	}
	for key, target := range overrides {
		if value, ok := lookup(EnvPrefix + key); ok {
			*target = value
		}
	}

	if value, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Timeout = timeout
	}
	return nil
}
