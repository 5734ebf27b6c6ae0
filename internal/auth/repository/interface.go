package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for refresh tokens.
type Repository interface {
	CreateRefreshToken(ctx context.Context, companyID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, companyID uuid.UUID) error
}
