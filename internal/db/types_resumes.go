package db

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeUpdate is a partial update of a resume row. Nil fields are left unchanged.
type ResumeUpdate struct {
	Title    *string
	Template *types.TemplateType
	Content  *types.ResumeContent
}

// IsEmpty reports whether the update writes no columns.
func (u ResumeUpdate) IsEmpty() bool {
	return u.Title == nil && u.Template == nil && u.Content == nil
}

// CopySuffix is appended to the title of a duplicated resume.
const CopySuffix = " (Copy)"
