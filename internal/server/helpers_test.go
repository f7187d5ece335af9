package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/brief-studio/internal/config"
	"github.com/jonathan/brief-studio/internal/db"
	"github.com/jonathan/brief-studio/internal/outlining"
	"github.com/jonathan/brief-studio/internal/types"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory implementation of UserStore and BriefStore.
type fakeStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*db.UserRecord
	briefs map[uuid.UUID]*db.BriefRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]*db.UserRecord),
		briefs: make(map[uuid.UUID]*db.BriefRecord),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.UserRecord{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return id, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateBrief(_ context.Context, userID uuid.UUID, title, language string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	f.briefs[id] = &db.BriefRecord{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Language:  language,
		Status:    types.BriefStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeStore) GetBrief(_ context.Context, id uuid.UUID) (*db.BriefRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.briefs[id], nil
}

func (f *fakeStore) ListBriefs(_ context.Context, userID uuid.UUID) ([]db.BriefRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.BriefRecord
	for _, b := range f.briefs {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveOutline(_ context.Context, briefID uuid.UUID, outline *types.Outline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.briefs[briefID]
	if !ok {
		return fmt.Errorf("brief not found: %s", briefID)
	}
	payload, err := json.Marshal(outline)
	if err != nil {
		return err
	}
	b.Outline = payload
	b.Status = types.BriefStatusOutlined
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) SaveArticle(_ context.Context, briefID uuid.UUID, article string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.briefs[briefID]
	if !ok {
		return fmt.Errorf("brief not found: %s", briefID)
	}
	b.Article = article
	b.Status = types.BriefStatusWritten
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteBrief(_ context.Context, briefID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.briefs, briefID)
	return nil
}

// stubOutliner lets tests control the outline generation backend.
type stubOutliner struct {
	fn func(ctx context.Context, req outlining.Request) (*types.Outline, error)
}

func (s *stubOutliner) Generate(ctx context.Context, req outlining.Request) (*types.Outline, error) {
	if s.fn == nil {
		return &types.Outline{
			TotalWordCount: 1200,
			Sections:       []types.OutlineNode{{Level: types.LevelH2, Heading: "Generated section"}},
		}, nil
	}
	return s.fn(ctx, req)
}

// stubRewriter lets tests control the rewrite backend.
type stubRewriter struct {
	fn func(ctx context.Context, req types.RewriteRequest) (string, error)
}

func (s *stubRewriter) Rewrite(ctx context.Context, req types.RewriteRequest) (string, error) {
	if s.fn == nil {
		return "REWRITTEN", nil
	}
	return s.fn(ctx, req)
}

// newTestServer builds a Server wired to in-memory fakes, with no database
// or LLM client behind it.
func newTestServer(t *testing.T, rw Rewriter) (*Server, *fakeStore) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")

	store := newFakeStore()
	passwordConfig, err := config.NewPasswordConfig()
	require.NoError(t, err)

	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	if rw == nil {
		rw = &stubRewriter{}
	}

	s := &Server{
		store:      store,
		rewriter:   rw,
		outliner:   &stubOutliner{},
		jwtService: jwtService,
		inflight:   make(map[uuid.UUID]bool),
	}
	s.userService = NewUserService(store, passwordConfig)
	s.authHandler = NewAuthHandler(s.userService, jwtService)
	return s, store
}

// doJSON sends a JSON request through the router and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a user through the API and returns the token and ID.
func registerUser(t *testing.T, handler http.Handler, email string) (string, uuid.UUID) {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}
