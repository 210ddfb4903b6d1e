package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-long-enough-for-hs256"

// memStore is an in-memory DBClient.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	resumes map[uuid.UUID]*types.Resume
	clock   time.Time
	pingErr error
	failErr error // returned by every resume method when set

	createUserErr   error // returned by CreateUser when set
	passwordUpdates int
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]*db.User),
		resumes: make(map[uuid.UUID]*types.Resume),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering by updated_at is stable.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func cloneResume(r *types.Resume) *types.Resume {
	out := *r
	out.Content = r.Content.Clone()
	return &out
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }
func (m *memStore) Close()                     {}

func (m *memStore) CreateUser(_ context.Context, name, email, phone, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createUserErr != nil {
		return uuid.Nil, m.createUserErr
	}
	now := m.tick()
	u := &db.User{
		ID: uuid.New(), Name: name, Email: email, Phone: phone,
		PasswordHash: passwordHash, PasswordSet: passwordHash != "",
		CreatedAt: now, UpdatedAt: now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	m.passwordUpdates++
	u.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) CreateResume(_ context.Context, userID uuid.UUID, title string, template types.TemplateType) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	if strings.TrimSpace(title) == "" {
		title = types.DefaultTitle
	}
	if template == "" {
		template = types.DefaultTemplate
	}
	now := m.tick()
	r := &types.Resume{
		ID: uuid.New(), UserID: userID, Title: title, Template: template,
		Content: types.DefaultContent(), CreatedAt: now, UpdatedAt: now,
	}
	m.resumes[r.ID] = r
	return cloneResume(r), nil
}

func (m *memStore) ListResumes(_ context.Context, userID uuid.UUID) ([]types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := []types.Resume{}
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, *cloneResume(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) GetResume(_ context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	return cloneResume(r), nil
}

func (m *memStore) UpdateResume(_ context.Context, userID, id uuid.UUID, update db.ResumeUpdate) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Template != nil {
		r.Template = *update.Template
	}
	if update.Content != nil {
		r.Content = update.Content.Clone()
	}
	r.UpdatedAt = m.tick()
	return cloneResume(r), nil
}

func (m *memStore) DeleteResume(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return false, m.failErr
	}
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

func (m *memStore) DuplicateResume(_ context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	src, ok := m.resumes[id]
	if !ok || src.UserID != userID {
		return nil, nil
	}
	now := m.tick()
	r := cloneResume(src)
	r.ID = uuid.New()
	r.Title = src.Title + db.CopySuffix
	r.CreatedAt, r.UpdatedAt = now, now
	m.resumes[r.ID] = r
	return cloneResume(r), nil
}

// fakeAssistant returns a canned reply or error and records the last request.
type fakeAssistant struct {
	content string
	err     error
	last    assist.Request
}

func (f *fakeAssistant) Generate(_ context.Context, req assist.Request) (string, error) {
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

// fakePDF records the HTML it was asked to print.
type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

// fakeArchiver records archived exports.
type fakeArchiver struct {
	mu       sync.Mutex
	owner    uuid.UUID
	filename string
	calls    int
	err      error
}

func (f *fakeArchiver) Archive(_ context.Context, owner, _ uuid.UUID, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.owner = owner
	f.filename = filename
	if f.err != nil {
		return "", f.err
	}
	return "exports/" + filename, nil
}

// testEnv is a server wired to in-memory fakes.
type testEnv struct {
	server    *Server
	handler   http.Handler
	store     *memStore
	assistant *fakeAssistant
	pdf       *fakePDF
	archiver  *fakeArchiver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     newMemStore(),
		assistant: &fakeAssistant{content: "Generated text."},
		pdf:       &fakePDF{},
		archiver:  &fakeArchiver{},
	}
	env.server = NewWithDeps(0, Deps{
		Store:     env.store,
		Passwords: &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Assistant: env.assistant,
		PDF:       env.pdf,
		Archiver:  env.archiver,
	})
	env.handler = env.server.Handler()
	return env
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signUp registers a user through the API and returns the user ID and token.
func (e *testEnv) signUp(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name": "Test User", "email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

// createResume creates a resume through the API.
func (e *testEnv) createResume(t *testing.T, token, title string) types.Resume {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/resumes", map[string]string{"title": title}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.Resume](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["error"].(string)
}

var _ DBClient = (*memStore)(nil)
