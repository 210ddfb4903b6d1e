package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent_Valid(t *testing.T) {
	doc := `{
		"personalDetails": {"fullName": "Ada Lovelace", "email": "ada@example.com"},
		"summary": "Engineer",
		"skills": [{"id": "s1", "name": "Languages", "skills": ["Go"]}],
		"experience": [{"id": "e1", "company": "Acme", "current": true, "description": ["Shipped"]}],
		"education": [],
		"projects": [],
		"certifications": []
	}`
	assert.NoError(t, ValidateContent([]byte(doc)))
}

func TestValidateContent_PartialPatch(t *testing.T) {
	assert.NoError(t, ValidateContent([]byte(`{"summary": "Only the summary"}`)))
	assert.NoError(t, ValidateContent([]byte(`{}`)))
}

func TestValidateContent_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{name: "summary wrong type", doc: `{"summary": 42}`, field: "summary"},
		{name: "current not boolean", doc: `{"experience": [{"current": "yes"}]}`, field: "experience.0.current"},
		{name: "skills not array", doc: `{"skills": {"name": "x"}}`, field: "skills"},
		{name: "root not object", doc: `[]`, field: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent([]byte(tt.doc))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestValidateContent_OversizedSummary(t *testing.T) {
	doc := `{"summary": "` + strings.Repeat("a", 5001) + `"}`
	var ve *ValidationError
	assert.True(t, errors.As(ValidateContent([]byte(doc)), &ve))
}

func TestValidateContent_MalformedJSON(t *testing.T) {
	err := ValidateContent([]byte(`{"summary": `))
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestValidateContentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary": "ok"}`), 0o644))

	assert.NoError(t, ValidateContentFile(path))

	err := ValidateContentFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read content file")
}

func TestValidationError_Error(t *testing.T) {
	single := &ValidationError{Errors: []FieldError{{Field: "summary", Message: "bad"}}}
	assert.Equal(t, "validation failed: summary: bad", single.Error())

	multi := &ValidationError{Errors: []FieldError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}}
	assert.Equal(t, "validation failed: 1. a: x; 2. b: y", multi.Error())
}
