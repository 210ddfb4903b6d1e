package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResume(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signUp(t, "create@example.com")

	t.Run("defaults with empty body", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/resumes", nil, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resume := decode[types.Resume](t, rec)
		assert.Equal(t, userID, resume.UserID)
		assert.Equal(t, types.DefaultTitle, resume.Title)
		assert.Equal(t, types.DefaultTemplate, resume.Template)
		assert.NotNil(t, resume.Content.Experience)
		assert.Empty(t, resume.Content.Experience)
	})

	t.Run("title and template", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/resumes", map[string]string{
			"title": "Backend", "template": "executive",
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code)

		resume := decode[types.Resume](t, rec)
		assert.Equal(t, "Backend", resume.Title)
		assert.Equal(t, types.TemplateExecutive, resume.Template)
	})

	t.Run("unknown template rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/resumes", map[string]string{"template": "neon"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/resumes", "{", token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListResumes_OwnerScopedAndOrdered(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signUp(t, "alice@example.com")
	_, bob := env.signUp(t, "bob@example.com")

	first := env.createResume(t, alice, "First")
	second := env.createResume(t, alice, "Second")
	env.createResume(t, bob, "Bob's")

	// touching the first resume moves it to the top
	rec := env.do(t, http.MethodPatch, "/resumes/"+first.ID.String(), map[string]string{"title": "First v2"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/resumes", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	resumes := decode[[]types.Resume](t, rec)
	require.Len(t, resumes, 2)
	assert.Equal(t, first.ID, resumes[0].ID)
	assert.Equal(t, second.ID, resumes[1].ID)
}

func TestListResumes_Empty(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "empty@example.com")

	rec := env.do(t, http.MethodGet, "/resumes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetResume(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signUp(t, "alice@example.com")
	_, bob := env.signUp(t, "bob@example.com")
	resume := env.createResume(t, alice, "Mine")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "owner", path: "/resumes/" + resume.ID.String(), token: alice, status: http.StatusOK},
		{name: "other user", path: "/resumes/" + resume.ID.String(), token: bob, status: http.StatusNotFound},
		{name: "missing", path: "/resumes/" + uuid.NewString(), token: alice, status: http.StatusNotFound},
		{name: "bad id", path: "/resumes/not-a-uuid", token: alice, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil, tt.token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestUpdateResume(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "update@example.com")
	resume := env.createResume(t, token, "Draft")
	path := "/resumes/" + resume.ID.String()

	t.Run("title only", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]string{"title": "Final"}, token)
		require.Equal(t, http.StatusOK, rec.Code)

		updated := decode[types.Resume](t, rec)
		assert.Equal(t, "Final", updated.Title)
		assert.Equal(t, resume.Template, updated.Template)
		assert.True(t, updated.UpdatedAt.After(resume.UpdatedAt))
	})

	t.Run("content assigns item ids", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]any{
			"content": map[string]any{
				"summary":    "Engineer.",
				"experience": []map[string]any{{"company": "Acme", "position": "Dev"}},
			},
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decode[types.Resume](t, rec)
		assert.Equal(t, "Engineer.", updated.Content.Summary)
		require.Len(t, updated.Content.Experience, 1)
		assert.NotEmpty(t, updated.Content.Experience[0].ID)
		assert.NotNil(t, updated.Content.Skills)
	})

	t.Run("schema violation", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]any{
			"content": map[string]any{"experience": "not a list"},
		}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty update", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]any{}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid template", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]string{"template": "neon"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing resume", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/resumes/"+uuid.NewString(), map[string]string{"title": "x"}, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMergeContent_ReplacesOnlyPresentSections(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "merge@example.com")
	resume := env.createResume(t, token, "Merge")
	path := "/resumes/" + resume.ID.String() + "/content"

	rec := env.do(t, http.MethodPatch, path, map[string]any{
		"summary": "Original summary.",
		"skills":  []map[string]any{{"name": "Languages", "skills": []string{"Go"}}},
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPatch, path, map[string]any{
		"personalDetails": map[string]string{"fullName": "Ada Lovelace"},
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[types.Resume](t, rec)
	assert.Equal(t, "Ada Lovelace", updated.Content.PersonalDetails.FullName)
	assert.Equal(t, "Original summary.", updated.Content.Summary)
	require.Len(t, updated.Content.Skills, 1)
	assert.Equal(t, []string{"Go"}, updated.Content.Skills[0].Skills)
}

func TestMergeContent_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "merge-err@example.com")
	resume := env.createResume(t, token, "Merge")
	path := "/resumes/" + resume.ID.String() + "/content"

	rec := env.do(t, http.MethodPatch, path, map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, path, map[string]any{"summary": 42}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/resumes/"+uuid.NewString()+"/content", map[string]any{"summary": "x"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteResume(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "delete@example.com")
	resume := env.createResume(t, token, "Gone")
	path := "/resumes/" + resume.ID.String()

	rec := env.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateResume(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "dup@example.com")
	resume := env.createResume(t, token, "Original")

	rec := env.do(t, http.MethodPatch, "/resumes/"+resume.ID.String(), map[string]any{
		"template": "tech-developer",
		"content": map[string]any{
			"summary": "Builds things.",
			"projects": []map[string]any{{"id": "p1", "name": "Compiler"}},
		},
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	source := decode[types.Resume](t, rec)

	rec = env.do(t, http.MethodPost, "/resumes/"+resume.ID.String()+"/duplicate", nil, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	dup := decode[types.Resume](t, rec)
	assert.NotEqual(t, source.ID, dup.ID)
	assert.Equal(t, "Original (Copy)", dup.Title)
	assert.Equal(t, source.Template, dup.Template)
	assert.Equal(t, source.Content, dup.Content)

	rec = env.do(t, http.MethodPost, "/resumes/"+uuid.NewString()+"/duplicate", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResumeStoreFailureIsInternal(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "fail@example.com")
	env.store.failErr = errors.New("pool exhausted")

	rec := env.do(t, http.MethodGet, "/resumes", nil, token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to list resumes", errorMessage(t, rec))
}
