package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for surveys.
type Repository interface {
	Create(ctx context.Context, s Survey) (Survey, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (Survey, error)
	GetPublic(ctx context.Context, id uuid.UUID) (Survey, error)
	List(ctx context.Context, companyID uuid.UUID) ([]Survey, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	CreateResponse(ctx context.Context, resp Response) error
	ListResponses(ctx context.Context, surveyID uuid.UUID) ([]Response, error)
}
