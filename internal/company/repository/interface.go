package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for company accounts.
type Repository interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	GetByName(ctx context.Context, name string) (Company, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, cols CredentialColumns) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
