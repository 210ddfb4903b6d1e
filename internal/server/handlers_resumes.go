package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleListTemplates returns the template catalogue.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, types.TemplateOptions)
}

// handleListResumes returns the caller's resumes, most recently updated first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		failResponse(w, r, err, "Failed to list resumes")
		return
	}
	jsonResponse(w, http.StatusOK, resumes)
}

// handleCreateResume creates a resume with default content. The body is optional.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req types.CreateResumeRequest
	if _, err := decodeJSON(w, r, &req, true); err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		failResponse(w, r, validationError(err), "Invalid request")
		return
	}

	resume, err := s.store.CreateResume(r.Context(), userID, req.Title, req.Template)
	if err != nil {
		failResponse(w, r, err, "Failed to create resume")
		return
	}
	jsonResponse(w, http.StatusCreated, resume)
}

// handleGetResume returns one resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}

	resume, err := s.loadResume(r.Context(), userID, id)
	if err != nil {
		failResponse(w, r, err, "Failed to get resume")
		return
	}
	jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResume applies a partial update of title, template and content.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}

	var req types.UpdateResumeRequest
	body, err := decodeJSON(w, r, &req, false)
	if err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		failResponse(w, r, validationError(err), "Invalid request")
		return
	}
	if req.IsEmpty() {
		failResponse(w, r, &ErrValidation{Message: "no fields to update"}, "Invalid request")
		return
	}
	if req.Content != nil {
		var raw struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			failResponse(w, r, &ErrValidation{Message: "Invalid request body"}, "Invalid request body")
			return
		}
		if err := schemas.ValidateContent(raw.Content); err != nil {
			failResponse(w, r, err, "Invalid content")
			return
		}
		req.Content.Normalize()
	}

	resume, err := s.store.UpdateResume(r.Context(), userID, id, db.ResumeUpdate{
		Title:    req.Title,
		Template: req.Template,
		Content:  req.Content,
	})
	if err != nil {
		failResponse(w, r, err, "Failed to update resume")
		return
	}
	if resume == nil {
		failResponse(w, r, &ErrResumeNotFound{ResumeID: id}, "Failed to update resume")
		return
	}
	jsonResponse(w, http.StatusOK, resume)
}

// handleMergeContent replaces the top-level content sections present in the body and
// leaves the rest untouched.
func (s *Server) handleMergeContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}

	var patch types.ContentPatch
	body, err := decodeJSON(w, r, &patch, false)
	if err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if patch.IsEmpty() {
		failResponse(w, r, &ErrValidation{Message: "no sections to update"}, "Invalid request")
		return
	}
	if err := schemas.ValidateContent(body); err != nil {
		failResponse(w, r, err, "Invalid content")
		return
	}

	resume, err := s.updateContent(r.Context(), userID, id, func(c types.ResumeContent) (types.ResumeContent, error) {
		return c.Merge(patch), nil
	})
	if err != nil {
		failResponse(w, r, err, "Failed to update content")
		return
	}
	jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume removes a resume.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), userID, id)
	if err != nil {
		failResponse(w, r, err, "Failed to delete resume")
		return
	}
	if !deleted {
		failResponse(w, r, &ErrResumeNotFound{ResumeID: id}, "Failed to delete resume")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDuplicateResume copies a resume under a "(Copy)" title.
func (s *Server) handleDuplicateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}

	resume, err := s.store.DuplicateResume(r.Context(), userID, id)
	if err != nil {
		failResponse(w, r, err, "Failed to duplicate resume")
		return
	}
	if resume == nil {
		failResponse(w, r, &ErrResumeNotFound{ResumeID: id}, "Failed to duplicate resume")
		return
	}
	jsonResponse(w, http.StatusCreated, resume)
}

// loadResume fetches a resume owned by userID, mapping a missing row to ErrResumeNotFound.
func (s *Server) loadResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	resume, err := s.store.GetResume(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if resume == nil {
		return nil, &ErrResumeNotFound{ResumeID: id}
	}
	return resume, nil
}

// updateContent reads the stored content, applies edit and writes the result back.
// Concurrent writers are last-write-wins.
func (s *Server) updateContent(ctx context.Context, userID, id uuid.UUID, edit func(types.ResumeContent) (types.ResumeContent, error)) (*types.Resume, error) {
	resume, err := s.loadResume(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	content, err := edit(resume.Content.Clone())
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateResume(ctx, userID, id, db.ResumeUpdate{Content: &content})
	if err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}
	if updated == nil {
		return nil, &ErrResumeNotFound{ResumeID: id}
	}
	return updated, nil
}
