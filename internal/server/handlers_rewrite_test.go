package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/brief-studio/internal/rewriting"
	"github.com/jonathan/brief-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rewriteSource = "The quick brown fox jumps over the lazy dog."

func TestRewriteEndpoint(t *testing.T) {
	var captured types.RewriteRequest
	rw := &stubRewriter{fn: func(_ context.Context, req types.RewriteRequest) (string, error) {
		captured = req
		return "slow crimson fox", nil
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	// "quick brown fox" is runes [4, 19).
	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source: rewriteSource,
		Start:  4,
		End:    19,
		Action: "rewrite",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RewriteHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "quick brown fox", resp.Selected)
	assert.Equal(t, "slow crimson fox", resp.Replacement)
	assert.Equal(t, "The slow crimson fox jumps over the lazy dog.", resp.Result)

	assert.Equal(t, "quick brown fox", captured.Text)
	assert.Equal(t, types.ActionRewrite, captured.Action)
	// With no explicit context the whole short document is the window.
	assert.Equal(t, rewriteSource, captured.Context)
}

func TestRewriteEndpointExplicitContextWins(t *testing.T) {
	var captured types.RewriteRequest
	rw := &stubRewriter{fn: func(_ context.Context, req types.RewriteRequest) (string, error) {
		captured = req
		return "x", nil
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source:  rewriteSource,
		Start:   4,
		End:     19,
		Action:  "expand",
		Context: "Explicit surrounding paragraph.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Explicit surrounding paragraph.", captured.Context)
}

func TestRewriteEndpointValidation(t *testing.T) {
	s, _ := newTestServer(t, nil)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	tests := []struct {
		name string
		req  RewriteHTTPRequest
	}{
		{"unknown action", RewriteHTTPRequest{Source: rewriteSource, Start: 4, End: 19, Action: "translate"}},
		{"custom without instruction", RewriteHTTPRequest{Source: rewriteSource, Start: 4, End: 19, Action: "custom"}},
		{"inverted range", RewriteHTTPRequest{Source: rewriteSource, Start: 19, End: 4, Action: "rewrite"}},
		{"range past end", RewriteHTTPRequest{Source: rewriteSource, Start: 4, End: 999, Action: "rewrite"}},
		{"negative start", RewriteHTTPRequest{Source: rewriteSource, Start: -1, End: 19, Action: "rewrite"}},
		{"selection too short", RewriteHTTPRequest{Source: rewriteSource, Start: 4, End: 8, Action: "rewrite"}},
		{"bad brief id", RewriteHTTPRequest{Source: rewriteSource, Start: 4, End: 19, Action: "rewrite", BriefID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/rewrite", token, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestRewriteEndpointCustomWithInstruction(t *testing.T) {
	var captured types.RewriteRequest
	rw := &stubRewriter{fn: func(_ context.Context, req types.RewriteRequest) (string, error) {
		captured = req
		return "ein schneller brauner Fuchs", nil
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source:      rewriteSource,
		Start:       4,
		End:         19,
		Action:      "custom",
		Instruction: "  translate to German  ",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "translate to German", captured.Instruction)
}

func TestRewriteEndpointBackendFailure(t *testing.T) {
	rw := &stubRewriter{fn: func(context.Context, types.RewriteRequest) (string, error) {
		return "", &rewriting.APICallError{Message: "model unavailable"}
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source: rewriteSource,
		Start:  4,
		End:    19,
		Action: "rewrite",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRewriteEndpointSingleInFlightPerBrief(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	rw := &stubRewriter{fn: func(context.Context, types.RewriteRequest) (string, error) {
		close(entered)
		<-release
		return "done", nil
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")
	briefID := uuid.NewString()

	req := RewriteHTTPRequest{
		Source:  rewriteSource,
		Start:   4,
		End:     19,
		Action:  "rewrite",
		BriefID: briefID,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec := doJSON(t, router, http.MethodPost, "/rewrite", token, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}()

	<-entered

	// Second call for the same brief while the first is in flight.
	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	wg.Wait()

	// Guard is released after completion.
	rw.fn = nil
	rec = doJSON(t, router, http.MethodPost, "/rewrite", token, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRewriteEndpointUserGuardMessage(t *testing.T) {
	s, _ := newTestServer(t, nil)
	router := s.routes()
	token, userID := registerUser(t, router, "alice@example.com")

	// No brief named, so the guard key falls back to the user.
	require.True(t, s.acquireRewrite(userID))
	defer s.releaseRewrite(userID)

	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source: rewriteSource,
		Start:  4,
		End:    19,
		Action: "rewrite",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "rewrite already in flight")
	assert.NotContains(t, rec.Body.String(), "brief")
}

func TestRewriteEndpointMultibyteOffsets(t *testing.T) {
	source := "héllo wörld, こんにちは世界 and more text"
	rw := &stubRewriter{fn: func(_ context.Context, req types.RewriteRequest) (string, error) {
		return "REPLACED", nil
	}}

	s, _ := newTestServer(t, rw)
	router := s.routes()
	token, _ := registerUser(t, router, "alice@example.com")

	// Runes [6, 18) cover "wörld, こんにちは".
	rec := doJSON(t, router, http.MethodPost, "/rewrite", token, RewriteHTTPRequest{
		Source: source,
		Start:  6,
		End:    18,
		Action: "shorten",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RewriteHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "wörld, こんにちは", resp.Selected)

	runes := []rune(source)
	want := string(runes[:6]) + "REPLACED" + string(runes[18:])
	assert.Equal(t, want, resp.Result)
}
