package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for the client roster.
type Repository interface {
	Create(ctx context.Context, cl Client) (Client, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (Client, error)
	List(ctx context.Context, companyID uuid.UUID) ([]Client, error)
	Update(ctx context.Context, cl Client) (Client, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	ListPendingValidation(ctx context.Context, companyID uuid.UUID) ([]PendingClient, error)
	NumberStatus(ctx context.Context, companyID, id uuid.UUID) (string, error)
	SetNumberValidation(ctx context.Context, companyID, id uuid.UUID, status string, e164 *string) error
	ListRecipients(ctx context.Context, companyID uuid.UUID, filter RecipientFilter) ([]Recipient, error)
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
