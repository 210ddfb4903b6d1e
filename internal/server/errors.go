// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrResumeNotFound indicates the resume does not exist or belongs to another user
type ErrResumeNotFound struct {
	ResumeID uuid.UUID
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ResumeID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRateLimited indicates the AI provider refused the call for quota reasons
type ErrRateLimited struct {
	Cause error
}

func (e *ErrRateLimited) Error() string {
	return "Rate limit exceeded. Please try again later."
}

func (e *ErrRateLimited) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists    *ErrEmailAlreadyExists
		badCredentials *ErrInvalidCredentials
		mismatch       *ErrPasswordMismatch
		userNotFound   *ErrUserNotFound
		resumeNotFound *ErrResumeNotFound
		itemNotFound   *types.ItemNotFoundError
		validation     *ErrValidation
		schemaInvalid  *schemas.ValidationError
		unknownSection *types.UnknownSectionError
		badItem        *types.ItemDecodeError
		invalidTask    *assist.InvalidTaskError
		rateLimited    *ErrRateLimited
		upstreamLimit  *llm.RateLimitError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCredentials), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &resumeNotFound), errors.As(err, &itemNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaInvalid), errors.As(err, &unknownSection),
		errors.As(err, &badItem), errors.As(err, &invalidTask), errors.Is(err, config.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.As(err, &rateLimited), errors.As(err, &upstreamLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
