// Package registry holds the static catalog of clinical inputs collected by
// the risk form. Each field carries its kind (numeric, yes/no flag, gender,
// severity flag), its default and the select options renderers present. The
// catalog is pure data: lookups never mutate it and every accessor returns
// copies, so callers can share Default() freely.
//
// Severity is not a single field. The catalog lists the two wire flags
// (severity_Moderate, severity_Severe); the three-way level itself lives in the
// form package and is only split into flags when a payload is built.
package registry
