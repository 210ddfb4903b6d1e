package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// AddItemResponse is returned when an item is appended to a section.
type AddItemResponse struct {
	ItemID string        `json:"item_id"`
	Resume *types.Resume `json:"resume"`
}

// sectionRequest parses the section path value and reads the item body, checking the
// item against the content schema.
func sectionRequest(w http.ResponseWriter, r *http.Request) (types.Section, json.RawMessage, error) {
	section, err := types.ParseSection(r.PathValue("section"))
	if err != nil {
		return "", nil, err
	}

	var item json.RawMessage
	if _, err := decodeJSON(w, r, &item, false); err != nil {
		return "", nil, err
	}
	if err := validateItem(section, item); err != nil {
		return "", nil, err
	}
	return section, item, nil
}

// validateItem checks a single item by validating a document holding only that item.
func validateItem(section types.Section, item json.RawMessage) error {
	doc, err := json.Marshal(map[string][]json.RawMessage{string(section): {item}})
	if err != nil {
		return fmt.Errorf("failed to wrap item: %w", err)
	}
	return schemas.ValidateContent(doc)
}

// handleAddItem appends an item to a section under a server-generated identifier.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}
	section, item, err := sectionRequest(w, r)
	if err != nil {
		failResponse(w, r, err, "Invalid item")
		return
	}

	var itemID string
	resume, err := s.updateContent(r.Context(), userID, id, func(c types.ResumeContent) (types.ResumeContent, error) {
		newID, err := c.AddItem(section, item)
		itemID = newID
		return c, err
	})
	if err != nil {
		failResponse(w, r, err, "Failed to add item")
		return
	}
	jsonResponse(w, http.StatusCreated, AddItemResponse{ItemID: itemID, Resume: resume})
}

// handleReplaceItem overwrites an item in place.
func (s *Server) handleReplaceItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}
	section, item, err := sectionRequest(w, r)
	if err != nil {
		failResponse(w, r, err, "Invalid item")
		return
	}
	itemID := r.PathValue("item_id")

	resume, err := s.updateContent(r.Context(), userID, id, func(c types.ResumeContent) (types.ResumeContent, error) {
		err := c.ReplaceItem(section, itemID, item)
		return c, err
	})
	if err != nil {
		failResponse(w, r, err, "Failed to update item")
		return
	}
	jsonResponse(w, http.StatusOK, resume)
}

// handleRemoveItem deletes exactly one item from a section.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		failResponse(w, r, err, "Invalid resume ID")
		return
	}
	section, err := types.ParseSection(r.PathValue("section"))
	if err != nil {
		failResponse(w, r, err, "Invalid section")
		return
	}
	itemID := r.PathValue("item_id")

	resume, err := s.updateContent(r.Context(), userID, id, func(c types.ResumeContent) (types.ResumeContent, error) {
		err := c.RemoveItem(section, itemID)
		return c, err
	})
	if err != nil {
		failResponse(w, r, err, "Failed to remove item")
		return
	}
	jsonResponse(w, http.StatusOK, resume)
}
