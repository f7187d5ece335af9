package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/brief-studio/internal/db"
	"github.com/jonathan/brief-studio/internal/server/middleware"
	"github.com/jonathan/brief-studio/internal/types"
)

// BriefStore is the subset of database operations the brief handlers use.
type BriefStore interface {
	CreateBrief(ctx context.Context, userID uuid.UUID, title, language string) (uuid.UUID, error)
	GetBrief(ctx context.Context, id uuid.UUID) (*db.BriefRecord, error)
	ListBriefs(ctx context.Context, userID uuid.UUID) ([]db.BriefRecord, error)
	SaveOutline(ctx context.Context, briefID uuid.UUID, outline *types.Outline) error
	SaveArticle(ctx context.Context, briefID uuid.UUID, article string) error
	DeleteBrief(ctx context.Context, briefID uuid.UUID) error
}

// CreateBriefRequest represents the request body for POST /briefs.
type CreateBriefRequest struct {
	Title    string `json:"title"`
	Language string `json:"language,omitempty"`
}

// BriefSummary is the list representation of a brief, without outline or
// article payloads.
type BriefSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language,omitempty"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// handleCreateBrief creates a new brief for the authenticated user.
func (s *Server) handleCreateBrief(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateBriefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	briefID, err := s.store.CreateBrief(r.Context(), userID, strings.TrimSpace(req.Title), req.Language)
	if err != nil {
		log.Printf("[BRIEFS] create failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":     briefID.String(),
		"status": types.BriefStatusDraft,
	})
}

// handleListBriefs returns the authenticated user's briefs, newest first,
// without outline or article payloads.
func (s *Server) handleListBriefs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := s.store.ListBriefs(r.Context(), userID)
	if err != nil {
		log.Printf("[BRIEFS] list failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summaries := make([]BriefSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, BriefSummary{
			ID:        rec.ID,
			Title:     rec.Title,
			Language:  rec.Language,
			Status:    rec.Status,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	s.jsonResponse(w, http.StatusOK, summaries)
}

// handleGetBrief returns a single brief with its outline and article.
func (s *Server) handleGetBrief(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	brief, err := toAPIBrief(rec)
	if err != nil {
		log.Printf("[BRIEFS] decode outline for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Corrupt outline payload")
		return
	}

	s.jsonResponse(w, http.StatusOK, brief)
}

// handleDeleteBrief deletes a brief owned by the authenticated user.
func (s *Server) handleDeleteBrief(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteBrief(r.Context(), rec.ID); err != nil {
		log.Printf("[BRIEFS] delete %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSaveArticle replaces the article text of a brief.
func (s *Server) handleSaveArticle(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedBrief(w, r)
	if !ok {
		return
	}

	var req struct {
		Article string `json:"article"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.store.SaveArticle(r.Context(), rec.ID, req.Article); err != nil {
		log.Printf("[BRIEFS] save article for %s failed: %v", rec.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":     rec.ID.String(),
		"status": types.BriefStatusWritten,
	})
}

// ownedBrief loads the brief in the {id} path segment and checks it belongs
// to the authenticated user. On failure it writes the error response and
// returns ok=false. Briefs of other users report not-found.
func (s *Server) ownedBrief(w http.ResponseWriter, r *http.Request) (*db.BriefRecord, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	briefID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid brief ID format")
		return nil, false
	}

	rec, err := s.store.GetBrief(r.Context(), briefID)
	if err != nil {
		log.Printf("[BRIEFS] get %s failed: %v", briefID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	if rec == nil || rec.UserID != userID {
		notFound := &ErrBriefNotFound{BriefID: briefID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}

	return rec, true
}

// toAPIBrief converts a stored brief row to the API representation,
// decoding the outline payload.
func toAPIBrief(rec *db.BriefRecord) (*types.Brief, error) {
	outline, err := rec.OutlineDoc()
	if err != nil {
		return nil, err
	}
	return &types.Brief{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Title:     rec.Title,
		Language:  rec.Language,
		Status:    rec.Status,
		Outline:   outline,
		Article:   rec.Article,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
