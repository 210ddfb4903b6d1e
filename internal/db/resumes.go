package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

const resumeColumns = `id, user_id, title, template, content, created_at, updated_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var (
		r        types.Resume
		template string
		content  []byte
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &template, &content, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Template = types.TemplateType(template)
	r.Content = types.DefaultContent()
	if len(content) > 0 {
		if err := json.Unmarshal(content, &r.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content for resume %s: %w", r.ID, err)
		}
	}
	r.Content.Normalize()
	return &r, nil
}

func marshalContent(c types.ResumeContent) ([]byte, error) {
	c.Normalize()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	return data, nil
}

// CreateResume inserts a resume with default content under userID.
// An empty title or template falls back to the defaults.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, template types.TemplateType) (*types.Resume, error) {
	if strings.TrimSpace(title) == "" {
		title = types.DefaultTitle
	}
	if template == "" {
		template = types.DefaultTemplate
	}
	content, err := marshalContent(types.DefaultContent())
	if err != nil {
		return nil, err
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, template, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		userID, title, string(template), content,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's resumes, most recently updated first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}

// GetResume retrieves a resume owned by userID. Returns nil, nil when it does not exist
// or belongs to someone else.
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResume writes the fields present in update and bumps updated_at.
// Returns nil, nil when the resume does not exist for userID.
func (db *DB) UpdateResume(ctx context.Context, userID, id uuid.UUID, update ResumeUpdate) (*types.Resume, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id, userID}

	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Template != nil {
		args = append(args, string(*update.Template))
		sets = append(sets, fmt.Sprintf("template = $%d", len(args)))
	}
	if update.Content != nil {
		content, err := marshalContent(*update.Content)
		if err != nil {
			return nil, err
		}
		args = append(args, content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET `+strings.Join(sets, ", ")+`
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+resumeColumns,
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// DeleteResume removes a resume owned by userID. Reports whether a row was deleted.
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DuplicateResume copies the template and content of a resume into a new row titled
// "<title> (Copy)". Returns nil, nil when the source does not exist for userID.
func (db *DB) DuplicateResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, template, content)
		 SELECT user_id, title || $3, template, content
		 FROM resumes WHERE id = $1 AND user_id = $2
		 RETURNING `+resumeColumns,
		id, userID, CopySuffix,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to duplicate resume: %w", err)
	}
	return r, nil
}
