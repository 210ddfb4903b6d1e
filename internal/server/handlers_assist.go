package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/llm"
)

// handleGenerateContent proxies a writing-assistant request to the model.
func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		errorResponse(w, http.StatusInternalServerError, "GEMINI_API_KEY is not configured")
		return
	}

	var req assist.Request
	if _, err := decodeJSON(w, r, &req, false); err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}

	content, err := s.assistant.Generate(r.Context(), req)
	if err != nil {
		if llm.IsRateLimited(err) {
			err = &ErrRateLimited{Cause: err}
		}
		// upstream failures are reported with their message
		failResponse(w, r, err, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, assist.Response{Content: content})
}
