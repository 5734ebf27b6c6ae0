// Package repository persists refresh tokens in PostgreSQL.
// Tokens are stored as SHA-256 hashes, never raw.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clientbase/platform/apperr"
)

// Repo implements refresh token persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateRefreshToken stores a hashed refresh token for a company.
func (r *Repo) CreateRefreshToken(ctx context.Context, companyID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, company_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), companyID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken resolves a hashed token to its company and expiry.
func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	query := `SELECT company_id, expires_at FROM refresh_tokens WHERE token_hash = $1`

	var companyID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&companyID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, apperr.Unauthorized("unknown refresh token")
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}
	return companyID, expiresAt, nil
}

// RevokeRefreshToken deletes a single hashed token. Revoking a token that is
// already gone is not an error.
func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens deletes every token for a company.
func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, companyID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}
