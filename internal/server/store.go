package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// DBClient is the persistence surface the handlers use. *db.DB implements it.
type DBClient interface {
	Ping(ctx context.Context) error
	Close()

	CreateUser(ctx context.Context, name, email, phone, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateResume(ctx context.Context, userID uuid.UUID, title string, template types.TemplateType) (*types.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error)
	UpdateResume(ctx context.Context, userID, id uuid.UUID, update db.ResumeUpdate) (*types.Resume, error)
	DeleteResume(ctx context.Context, userID, id uuid.UUID) (bool, error)
	DuplicateResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error)
}

var _ DBClient = (*db.DB)(nil)
