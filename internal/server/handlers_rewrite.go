package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/brief-studio/internal/rewriting"
	"github.com/jonathan/brief-studio/internal/selection"
	"github.com/jonathan/brief-studio/internal/server/middleware"
	"github.com/jonathan/brief-studio/internal/types"
)

// Rewriter performs the selection rewrite call.
type Rewriter interface {
	Rewrite(ctx context.Context, req types.RewriteRequest) (string, error)
}

// RewriteHTTPRequest represents the request body for POST /rewrite. Start and
// End are rune offsets into Source; the server derives the selected text and,
// when Context is empty, a window around the selection.
type RewriteHTTPRequest struct {
	BriefID     string `json:"brief_id,omitempty"`
	Source      string `json:"source"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Action      string `json:"action"`
	Instruction string `json:"instruction,omitempty"`
	Context     string `json:"context,omitempty"`
	Language    string `json:"language,omitempty"`
}

// RewriteHTTPResponse represents the response for POST /rewrite. Result is
// Source with the selected range replaced by Replacement.
type RewriteHTTPResponse struct {
	Selected    string `json:"selected"`
	Replacement string `json:"replacement"`
	Result      string `json:"result"`
}

// handleRewrite rewrites the selected range of the source text. At most one
// rewrite runs per brief at a time; concurrent calls get 409.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RewriteHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	action := types.RewriteAction(req.Action)
	if !action.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "unknown rewrite action: "+req.Action)
		return
	}
	if action.RequiresInstruction() && strings.TrimSpace(req.Instruction) == "" {
		s.errorResponse(w, http.StatusBadRequest, "instruction is required for custom rewrites")
		return
	}

	sourceLen := len([]rune(req.Source))
	if req.Start < 0 || req.End > sourceLen || req.Start >= req.End {
		s.errorResponse(w, http.StatusBadRequest, "invalid selection range")
		return
	}

	rng := types.OffsetRange{Start: req.Start, End: req.End}
	selected := selection.Excerpt(req.Source, rng)
	if len([]rune(strings.TrimSpace(selected))) < selection.MinSelectionRunes {
		s.errorResponse(w, http.StatusBadRequest, "selection too short to rewrite")
		return
	}

	// The guard key is the brief when the client names one, otherwise the
	// user, matching the one-call-per-editing-session rule.
	guardKey := userID
	if req.BriefID != "" {
		briefID, err := uuid.Parse(req.BriefID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid brief ID format")
			return
		}
		guardKey = briefID
	}

	if !s.acquireRewrite(guardKey) {
		inFlight := &ErrRewriteInFlight{Key: guardKey}
		s.errorResponse(w, HTTPStatus(inFlight), inFlight.Error())
		return
	}
	defer s.releaseRewrite(guardKey)

	ctxWindow := req.Context
	if ctxWindow == "" {
		ctxWindow = selection.ContextWindow(req.Source, rng)
	}

	replacement, err := s.rewriter.Rewrite(r.Context(), types.RewriteRequest{
		Text:        selected,
		Action:      action,
		Context:     ctxWindow,
		Instruction: strings.TrimSpace(req.Instruction),
		Language:    req.Language,
	})
	if err != nil {
		log.Printf("[REWRITE] %s failed: %v", action, err)
		var invalidErr *rewriting.InvalidRequestError
		if errors.As(err, &invalidErr) {
			s.errorResponse(w, http.StatusBadRequest, invalidErr.Error())
			return
		}
		s.errorResponse(w, http.StatusBadGateway, "rewrite failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, RewriteHTTPResponse{
		Selected:    selected,
		Replacement: replacement,
		Result:      selection.Apply(req.Source, rng, replacement),
	})
}

// acquireRewrite marks a rewrite in flight for key. Returns false when one is
// already running.
func (s *Server) acquireRewrite(key uuid.UUID) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *Server) releaseRewrite(key uuid.UUID) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, key)
}
