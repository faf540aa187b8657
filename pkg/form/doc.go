// Package form owns the editable state of the risk form: the integer value of
// every registry field, the severity level and the display-only name.
//
// Inputs arrive as raw strings and are coerced to integers at this boundary.
// Anything that is not a whole number in the field's domain is rejected with
// a *FieldError, recorded per field, and the previous value stays in place.
// Severity is held as a three-valued Severity and only split into the
// severity_Moderate/severity_Severe flags by Payload and Values.
package form
