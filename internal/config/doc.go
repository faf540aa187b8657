// Package config resolves runtime settings from defaults, an optional YAML
// file and RISKFORM_* environment variables, in that order. Command-line
// flags are applied on top by the binaries.
package config
