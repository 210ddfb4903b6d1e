package types

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the resume-specific tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("template", func(fl validator.FieldLevel) bool {
			return TemplateType(fl.Field().String()).Valid()
		})
	})
	return validate
}

// CreateResumeRequest creates a resume with default content.
type CreateResumeRequest struct {
	Title    string       `json:"title" validate:"max=200"`
	Template TemplateType `json:"template" validate:"omitempty,template"`
}

// UpdateResumeRequest is a partial update: only non-nil fields are written.
type UpdateResumeRequest struct {
	Title    *string        `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Template *TemplateType  `json:"template,omitempty" validate:"omitempty,template"`
	Content  *ResumeContent `json:"content,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (r *UpdateResumeRequest) IsEmpty() bool {
	return r.Title == nil && r.Template == nil && r.Content == nil
}

// PreviewRequest renders content that has not been saved.
type PreviewRequest struct {
	Template TemplateType  `json:"template"`
	Content  ResumeContent `json:"content"`
}

// Validate checks the struct tags.
func (r *CreateResumeRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate checks the struct tags.
func (r *UpdateResumeRequest) Validate() error {
	return Validator().Struct(r)
}
