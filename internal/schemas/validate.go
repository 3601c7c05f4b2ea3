// Package schemas validates LLM extraction output against the JSON Schema
// contract before any coercion or persistence.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// extractionSchema is the per-object contract for batched job extraction.
// Numeric fields admit strings because the model occasionally quotes numbers;
// coercion to integers happens downstream.
const extractionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["department", "seniority", "tech_stack", "skills", "pain_points", "remote_policy", "job_summary"],
  "properties": {
    "job_id": {"type": "string"},
    "department": {"type": "string"},
    "seniority": {"type": "string"},
    "tech_stack": {"type": "array", "items": {"type": "string"}},
    "skills": {"type": "array", "items": {"type": "string"}},
    "pain_points": {"type": "array", "items": {"type": "string"}},
    "remote_policy": {"type": "string"},
    "salary_min": {"type": ["integer", "number", "string", "null"]},
    "salary_max": {"type": ["integer", "number", "string", "null"]},
    "experience_years": {"type": ["integer", "number", "string", "null"]},
    "job_summary": {"type": "string"}
  }
}`

var extractionLoader = gojsonschema.NewStringLoader(extractionSchema)

// ValidationError carries the field-level failures from one object.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateExtraction checks one extraction object against the contract.
func ValidateExtraction(document []byte) error {
	result, err := gojsonschema.Validate(extractionLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
