package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
)

// htmlResponse writes a rendered document.
func htmlResponse(w http.ResponseWriter, doc *rendering.Document) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Resume-Template", string(doc.Template))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc.HTML)); err != nil {
		log.Error().Err(err).Msg("failed to write HTML response")
	}
}

// attachment writes data as a download named filename.
func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("failed to write download")
	}
}

// templateFor picks the ?template= override when present, else the resume's own template.
func templateFor(r *http.Request, resume *types.Resume) types.TemplateType {
	if t := r.URL.Query().Get("template"); t != "" {
		return types.TemplateType(t)
	}
	return resume.Template
}

// renderStored loads and renders one of the caller's resumes.
func (s *Server) renderStored(w http.ResponseWriter, r *http.Request) (*types.Resume, *rendering.Document, bool) {
	userID, ok := requestUser(w, r)
	if !ok {
		return nil, nil, false
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return nil, nil, false
	}

	resume, err := s.loadResume(r.Context(), userID, id)
	if err != nil {
		failResponse(w, r, err, "Failed to get resume")
		return nil, nil, false
	}

	doc, err := rendering.Render(resume.Content, templateFor(r, resume))
	if err != nil {
		failResponse(w, r, err, "Failed to render resume")
		return nil, nil, false
	}
	return resume, doc, true
}

// handlePreviewResume returns the HTML rendition of a stored resume.
func (s *Server) handlePreviewResume(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := s.renderStored(w, r)
	if !ok {
		return
	}
	htmlResponse(w, doc)
}

// handlePreviewContent renders content that has not been saved.
func (s *Server) handlePreviewContent(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	body, err := decodeJSON(w, r, &req, false)
	if err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}

	var raw struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(body, &raw); err == nil && len(raw.Content) > 0 {
		if err := schemas.ValidateContent(raw.Content); err != nil {
			failResponse(w, r, err, "Invalid content")
			return
		}
	}

	doc, err := rendering.Render(req.Content, req.Template)
	if err != nil {
		failResponse(w, r, err, "Failed to render resume")
		return
	}
	htmlResponse(w, doc)
}

// handleExportPDF prints a stored resume to PDF and archives the result when an archive
// bucket is configured.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil {
		errorResponse(w, http.StatusInternalServerError, "PDF export is not configured")
		return
	}

	resume, doc, ok := s.renderStored(w, r)
	if !ok {
		return
	}

	data, err := s.pdf.RenderPDF(r.Context(), doc.HTML)
	if err != nil {
		failResponse(w, r, err, "Failed to generate PDF")
		return
	}

	filename := export.Filename(resume.Title, ".pdf")
	if s.archiver != nil {
		key, err := s.archiver.Archive(r.Context(), resume.UserID, resume.ID, filename, data)
		if err != nil {
			log.Error().Err(err).Str("resume_id", resume.ID.String()).Msg("failed to archive PDF export")
		} else {
			log.Info().Str("resume_id", resume.ID.String()).Str("key", key).Msg("archived PDF export")
		}
	}

	attachment(w, "application/pdf", filename, data)
}

// handleExportText returns the ATS plain-text rendition of a stored resume.
func (s *Server) handleExportText(w http.ResponseWriter, r *http.Request) {
	resume, doc, ok := s.renderStored(w, r)
	if !ok {
		return
	}

	text, err := rendering.PlainText(doc.HTML)
	if err != nil {
		failResponse(w, r, err, "Failed to extract text")
		return
	}
	attachment(w, "text/plain; charset=utf-8", export.Filename(resume.Title, ".txt"), []byte(text))
}
