package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDF struct {
	calls int
	err   error
}

func (s *stubPDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF " + html), nil
}

func sampleContent() types.ResumeContent {
	c := types.DefaultContent()
	c.PersonalDetails = types.PersonalDetails{FullName: "Ada Lovelace", Email: "ada@example.com"}
	c.Summary = "First programmer."
	c.Skills = []types.SkillCategory{{ID: "s1", Name: "Math", Skills: []string{"Analysis"}}}
	return c
}

func allTemplates() []types.TemplateType {
	var out []types.TemplateType
	for _, opt := range types.TemplateOptions {
		out = append(out, opt.Value)
	}
	return out
}

func TestRenderFiles_HTMLAllTemplates(t *testing.T) {
	dir := t.TempDir()

	paths, err := renderFiles(context.Background(), renderJob{
		Content:   sampleContent(),
		Templates: allTemplates(),
		Format:    formatHTML,
		OutDir:    dir,
	})
	require.NoError(t, err)
	require.Len(t, paths, len(types.TemplateOptions))

	for i, p := range paths {
		assert.True(t, strings.HasSuffix(p, "-"+string(types.TemplateOptions[i].Value)+".html"), p)
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Ada Lovelace")
	}
}

func TestRenderFiles_Text(t *testing.T) {
	dir := t.TempDir()

	paths, err := renderFiles(context.Background(), renderJob{
		Content:   sampleContent(),
		Templates: []types.TemplateType{types.TemplateExecutive},
		Format:    formatText,
		OutDir:    filepath.Join(dir, "nested"),
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "First programmer.")
	assert.NotContains(t, string(data), "<")
}

func TestRenderFiles_PDF(t *testing.T) {
	pdf := &stubPDF{}
	paths, err := renderFiles(context.Background(), renderJob{
		Content:   sampleContent(),
		Templates: allTemplates(),
		Format:    formatPDF,
		OutDir:    t.TempDir(),
		PDF:       pdf,
	})
	require.NoError(t, err)
	assert.Len(t, paths, len(types.TemplateOptions))
	assert.Equal(t, len(types.TemplateOptions), pdf.calls)
	for _, p := range paths {
		assert.True(t, strings.HasSuffix(p, ".pdf"))
	}
}

func TestRenderFiles_Errors(t *testing.T) {
	base := renderJob{Content: sampleContent(), Templates: []types.TemplateType{types.DefaultTemplate}, OutDir: t.TempDir()}

	job := base
	job.Format = "docx"
	_, err := renderFiles(context.Background(), job)
	assert.ErrorContains(t, err, "unknown format")

	job = base
	job.Format = formatPDF
	_, err = renderFiles(context.Background(), job)
	assert.ErrorContains(t, err, "PDF renderer")

	job.PDF = &stubPDF{err: errors.New("chrome missing")}
	_, err = renderFiles(context.Background(), job)
	assert.ErrorContains(t, err, "chrome missing")
}

func TestLoadContentFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{
		"personalDetails": {"fullName": "Ada"},
		"experience": [{"company": "Engine Co", "position": "Programmer"}]
	}`), 0o600))

	content, err := loadContentFile(valid)
	require.NoError(t, err)
	assert.Equal(t, "Ada", content.PersonalDetails.FullName)
	require.Len(t, content.Experience, 1)
	assert.NotEmpty(t, content.Experience[0].ID)
	assert.NotNil(t, content.Projects)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"skills": "Go"}`), 0o600))
	_, err = loadContentFile(invalid)
	assert.ErrorContains(t, err, "invalid content file")

	_, err = loadContentFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
