// Package rendering turns resume content into complete HTML documents, one layout per template.
package rendering

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// TemplateError represents an error parsing or executing an HTML layout
type TemplateError struct {
	Template types.TemplateType
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// ExtractError represents a failure reading text back out of a rendered document
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error: %s", e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
