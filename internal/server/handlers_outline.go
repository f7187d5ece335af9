package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/brief-studio/internal/db"
	"github.com/jonathan/brief-studio/internal/outline"
	"github.com/jonathan/brief-studio/internal/outlining"
	"github.com/jonathan/brief-studio/internal/schemas"
	"github.com/jonathan/brief-studio/internal/types"
)

// Outliner generates a schema-validated outline document.
type Outliner interface {
	Generate(ctx context.Context, req outlining.Request) (*types.Outline, error)
}

// GenerateOutlineRequest represents the request body for
// POST /briefs/{id}/outline/generate. Empty fields default from the brief.
type GenerateOutlineRequest struct {
	Topic          string `json:"topic,omitempty"`
	Language       string `json:"language,omitempty"`
	TotalWordCount int    `json:"total_word_count,omitempty"`
	Coverage       string `json:"coverage,omitempty"`
}

// UpdateOutlineFieldRequest represents the request body for
// PATCH /briefs/{id}/outline/field. Value takes whatever JSON shape the
// field expects: a string, a string array, or a number for word_count.
type UpdateOutlineFieldRequest struct {
	Path  []int  `json:"path"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

// RemoveOutlineNodeRequest represents the request body for
// POST /briefs/{id}/outline/remove.
type RemoveOutlineNodeRequest struct {
	Path []int `json:"path"`
}

// handleSaveOutline replaces the outline of a brief. The payload is
// validated against the outline schema before it is stored.
func (s *Server) handleSaveOutline(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateOutline(string(body)); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, validationErr.Error())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid outline payload: "+err.Error())
		return
	}

	var doc types.Outline
	if err := json.Unmarshal(body, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid outline payload: "+err.Error())
		return
	}

	if err := s.store.SaveOutline(r.Context(), rec.ID, &doc); err != nil {
		log.Printf("[OUTLINE] save for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":     rec.ID.String(),
		"status": types.BriefStatusOutlined,
	})
}

// handleGenerateOutline generates an outline for the brief through the LLM
// and stores it. The generation service validates the reply against the
// outline schema, so whatever lands here is safe to save.
func (s *Server) handleGenerateOutline(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	var req GenerateOutlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = rec.Title
	}
	language := req.Language
	if language == "" {
		language = rec.Language
	}

	doc, err := s.outliner.Generate(r.Context(), outlining.Request{
		Topic:     topic,
		Language:  language,
		WordCount: req.TotalWordCount,
		Coverage:  req.Coverage,
	})
	if err != nil {
		log.Printf("[OUTLINE] generation for %s failed: %v", rec.ID, err)
		var invalidErr *outlining.InvalidRequestError
		if errors.As(err, &invalidErr) {
			s.errorResponse(w, http.StatusBadRequest, invalidErr.Error())
			return
		}
		s.errorResponse(w, http.StatusBadGateway, "outline generation failed")
		return
	}

	if err := s.store.SaveOutline(r.Context(), rec.ID, doc); err != nil {
		log.Printf("[OUTLINE] save for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleUpdateOutlineField sets one field of the node at the given path and
// returns the updated outline. A path that no longer exists leaves the
// outline unchanged rather than erroring, since concurrent edits can remove
// nodes out from under the client.
func (s *Server) handleUpdateOutlineField(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	var req UpdateOutlineFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Field == "" {
		s.errorResponse(w, http.StatusBadRequest, "field is required")
		return
	}

	s.mutateOutline(w, r, rec, func(doc *types.Outline) {
		doc.Sections = outline.UpdateField(doc.Sections, outline.Path(req.Path), req.Field, req.Value)
	})
}

// handleRemoveOutlineNode removes the node at the given path, including its
// subtree, and returns the updated outline.
func (s *Server) handleRemoveOutlineNode(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	var req RemoveOutlineNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Path) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "path is required")
		return
	}

	s.mutateOutline(w, r, rec, func(doc *types.Outline) {
		doc.Sections = outline.RemoveNode(doc.Sections, outline.Path(req.Path))
	})
}

// handleSetWordCount sets the outline's total word-count target. The target
// lives on the container, not a node, so no path is involved.
func (s *Server) handleSetWordCount(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	var req struct {
		TotalWordCount int `json:"total_word_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TotalWordCount < 0 {
		s.errorResponse(w, http.StatusBadRequest, "total_word_count must not be negative")
		return
	}

	s.mutateOutline(w, r, rec, func(doc *types.Outline) {
		doc.TotalWordCount = req.TotalWordCount
	})
}

// mutateOutline decodes the brief's outline, applies mutate, persists the
// result, and responds with the updated outline.
func (s *Server) mutateOutline(w http.ResponseWriter, r *http.Request, rec *db.BriefRecord, mutate func(*types.Outline)) {
	doc, err := rec.OutlineDoc()
	if err != nil {
		log.Printf("[OUTLINE] decode for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Corrupt outline payload")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusConflict, "brief has no outline")
		return
	}

	mutate(doc)

	if err := s.store.SaveOutline(r.Context(), rec.ID, doc); err != nil {
		log.Printf("[OUTLINE] save for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}
