// Package schemas provides JSON Schema validation for resume content blobs.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume_content.schema.json
var resumeContentSchema string

// ResumeContentSchemaName identifies the embedded content schema in errors.
const ResumeContentSchemaName = "resume_content.schema.json"

var (
	contentSchema     *gojsonschema.Schema
	contentSchemaErr  error
	contentSchemaOnce sync.Once
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", ve.Errors[0].Field, ve.Errors[0].Message)
	}
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func loadContentSchema() (*gojsonschema.Schema, error) {
	contentSchemaOnce.Do(func() {
		contentSchema, contentSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeContentSchema))
		if contentSchemaErr != nil {
			contentSchemaErr = &SchemaLoadError{
				Path:    ResumeContentSchemaName,
				Message: "invalid embedded schema",
				Cause:   contentSchemaErr,
			}
		}
	})
	return contentSchema, contentSchemaErr
}

// ValidateContent validates a resume content JSON document (or a partial patch of one)
// against the embedded schema.
func ValidateContent(data []byte) error {
	schema, err := loadContentSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse content document: %w", err)
	}
	return resultError(result)
}

// ValidateContentFile validates a resume content JSON file on disk.
func ValidateContentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content file: %w", err)
	}
	return ValidateContent(data)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
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
