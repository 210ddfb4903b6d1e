package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, "email already registered: test@example.com", (&ErrEmailAlreadyExists{Email: "test@example.com"}).Error())
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "user not found: "+id.String(), (&ErrUserNotFound{UserID: id}).Error())
	assert.Equal(t, "current password is incorrect", (&ErrPasswordMismatch{}).Error())
	assert.Equal(t, "resume not found: "+id.String(), (&ErrResumeNotFound{ResumeID: id}).Error())
	assert.Equal(t, "validation error: email - invalid format", (&ErrValidation{Field: "email", Message: "invalid format"}).Error())
	assert.Equal(t, "validation error: no fields to update", (&ErrValidation{Message: "no fields to update"}).Error())
	assert.Equal(t, "Rate limit exceeded. Please try again later.", (&ErrRateLimited{}).Error())
}

func TestErrRateLimited_Unwrap(t *testing.T) {
	cause := errors.New("quota")
	assert.ErrorIs(t, &ErrRateLimited{Cause: cause}, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "email exists", err: &ErrEmailAlreadyExists{Email: "a@b.c"}, expected: http.StatusConflict},
		{name: "invalid credentials", err: &ErrInvalidCredentials{}, expected: http.StatusUnauthorized},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, expected: http.StatusUnauthorized},
		{name: "user not found", err: &ErrUserNotFound{UserID: uuid.New()}, expected: http.StatusNotFound},
		{name: "resume not found", err: &ErrResumeNotFound{ResumeID: uuid.New()}, expected: http.StatusNotFound},
		{name: "item not found", err: &types.ItemNotFoundError{Section: types.SectionSkills, ID: "x"}, expected: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "password", Message: "too short"}, expected: http.StatusBadRequest},
		{name: "schema", err: &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "summary", Message: "bad"}}}, expected: http.StatusBadRequest},
		{name: "unknown section", err: &types.UnknownSectionError{Section: "hobbies"}, expected: http.StatusBadRequest},
		{name: "bad item", err: &types.ItemDecodeError{Section: types.SectionSkills, Cause: errors.New("x")}, expected: http.StatusBadRequest},
		{name: "invalid task", err: &assist.InvalidTaskError{Type: "poem"}, expected: http.StatusBadRequest},
		{name: "password too long", err: fmt.Errorf("failed to hash password: %w", config.ErrPasswordTooLong), expected: http.StatusBadRequest},
		{name: "rate limited", err: &ErrRateLimited{}, expected: http.StatusTooManyRequests},
		{name: "wrapped upstream limit", err: fmt.Errorf("failed: %w", &llm.RateLimitError{Cause: errors.New("q")}), expected: http.StatusTooManyRequests},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", &ErrResumeNotFound{}), expected: http.StatusNotFound},
		{name: "unknown", err: assert.AnError, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
