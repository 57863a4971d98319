// Package schemas checks model output against the JSON Schemas the service relies on.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var files embed.FS

var (
	// ResumeExtraction describes the structured résumé returned by the extraction prompt.
	ResumeExtraction = mustLoad("resume_extraction.schema.json")
	// InterviewEvaluation describes the hiring recommendation returned for interview notes.
	InterviewEvaluation = mustLoad("interview_evaluation.schema.json")
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses raw as a JSON Schema.
func Compile(name string, raw []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	return &Schema{name: name, schema: compiled}, nil
}

func (s *Schema) Name() string { return s.name }

// Validate checks a JSON document. Malformed JSON is reported as a plain error,
// schema violations as *ValidationError.
func (s *Schema) Validate(document []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("validating against %s: %w", s.name, err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: s.name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

func mustLoad(name string) *Schema {
	raw, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("schema %s is not embedded: %v", name, err))
	}
	s, err := Compile(strings.TrimSuffix(name, ".schema.json"), raw)
	if err != nil {
		panic(err)
	}
	return s
}
