package main

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/brief-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	reply string
	err   error
	got   types.RewriteRequest
}

func (s *stubBackend) Rewrite(_ context.Context, req types.RewriteRequest) (string, error) {
	s.got = req
	return s.reply, s.err
}

func TestRewriteDocumentSplicesReplacement(t *testing.T) {
	backend := &stubBackend{reply: "slow crimson fox"}
	doc := "The quick brown fox jumps over the lazy dog."

	result, replacement, err := rewriteDocument(context.Background(), backend, doc,
		types.OffsetRange{Start: 4, End: 19}, types.ActionRewrite, "", "", "English")
	require.NoError(t, err)

	assert.Equal(t, "slow crimson fox", replacement)
	assert.Equal(t, "The slow crimson fox jumps over the lazy dog.", result)
	assert.Equal(t, "quick brown fox", backend.got.Text)
	assert.Equal(t, doc, backend.got.Context)
	assert.Equal(t, "English", backend.got.Language)
}

func TestRewriteDocumentExplicitContext(t *testing.T) {
	backend := &stubBackend{reply: "x"}
	doc := "The quick brown fox jumps over the lazy dog."

	_, _, err := rewriteDocument(context.Background(), backend, doc,
		types.OffsetRange{Start: 4, End: 19}, types.ActionExpand, "", "surrounding paragraph", "")
	require.NoError(t, err)
	assert.Equal(t, "surrounding paragraph", backend.got.Context)
}

func TestRewriteDocumentValidation(t *testing.T) {
	backend := &stubBackend{reply: "x"}
	doc := "The quick brown fox jumps over the lazy dog."

	tests := []struct {
		name        string
		rng         types.OffsetRange
		action      types.RewriteAction
		instruction string
	}{
		{"unknown action", types.OffsetRange{Start: 4, End: 19}, "translate", ""},
		{"custom without instruction", types.OffsetRange{Start: 4, End: 19}, types.ActionCustom, ""},
		{"inverted range", types.OffsetRange{Start: 19, End: 4}, types.ActionRewrite, ""},
		{"past end", types.OffsetRange{Start: 4, End: 999}, types.ActionRewrite, ""},
		{"too short", types.OffsetRange{Start: 4, End: 8}, types.ActionRewrite, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rewriteDocument(context.Background(), backend, doc, tt.rng, tt.action, tt.instruction, "", "")
			assert.Error(t, err)
		})
	}
}

func TestRewriteDocumentBackendError(t *testing.T) {
	backend := &stubBackend{err: errors.New("model unavailable")}
	doc := "The quick brown fox jumps over the lazy dog."

	_, _, err := rewriteDocument(context.Background(), backend, doc,
		types.OffsetRange{Start: 4, End: 19}, types.ActionRewrite, "", "", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "model unavailable")
}
