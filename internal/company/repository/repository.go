// Package repository persists company accounts in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clientbase/platform/apperr"
)

const companyNotFoundMessage = "company not found"

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// Company is the persistence model. Credential columns hold ciphertext.
type Company struct {
	ID                 uuid.UUID
	Name               string
	Whatsapp           string
	Email              string
	PasswordHash       string
	EmailAppPassword   *string
	LookupAccountSID   *string
	LookupAuthToken    *string
	WhatsappFrom       *string
	WhatsappContentSID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CredentialColumns holds encrypted credential values for a partial update.
// A nil pointer means "leave the column unchanged".
type CredentialColumns struct {
	EmailAppPassword   *string
	LookupAccountSID   *string
	LookupAuthToken    *string
	WhatsappFrom       *string
	WhatsappContentSID *string
}

// Repo implements company persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new company repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const companyColumns = `id, name, whatsapp, email, password_hash,
	email_app_password, lookup_account_sid, lookup_auth_token,
	whatsapp_from, whatsapp_content_sid, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Whatsapp, &c.Email, &c.PasswordHash,
		&c.EmailAppPassword, &c.LookupAccountSID, &c.LookupAuthToken,
		&c.WhatsappFrom, &c.WhatsappContentSID, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create inserts a new company. Duplicate name or email maps to apperr.Conflict.
func (r *Repo) Create(ctx context.Context, c Company) (Company, error) {
	query := `
		INSERT INTO companies (id, name, whatsapp, email, password_hash,
			email_app_password, lookup_account_sid, lookup_auth_token,
			whatsapp_from, whatsapp_content_sid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + companyColumns

	created, err := scanCompany(r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Whatsapp, c.Email, c.PasswordHash,
		c.EmailAppPassword, c.LookupAccountSID, c.LookupAuthToken,
		c.WhatsappFrom, c.WhatsappContentSID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Company{}, apperr.Conflict("company name or email already registered")
		}
		return Company{}, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}

// GetByID retrieves a company by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMessage)
		}
		return Company{}, fmt.Errorf("get company by id: %w", err)
	}
	return c, nil
}

// GetByName retrieves a company by its unique name.
func (r *Repo) GetByName(ctx context.Context, name string) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1`

	c, err := scanCompany(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMessage)
		}
		return Company{}, fmt.Errorf("get company by name: %w", err)
	}
	return c, nil
}

// UpdateCredentials applies a partial credential update. Only non-nil columns
// are written; updated_at is always bumped.
func (r *Repo) UpdateCredentials(ctx context.Context, id uuid.UUID, cols CredentialColumns) error {
	query := `
		UPDATE companies SET
			email_app_password = COALESCE($2, email_app_password),
			lookup_account_sid = COALESCE($3, lookup_account_sid),
			lookup_auth_token = COALESCE($4, lookup_auth_token),
			whatsapp_from = COALESCE($5, whatsapp_from),
			whatsapp_content_sid = COALESCE($6, whatsapp_content_sid),
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		cols.EmailAppPassword, cols.LookupAccountSID, cols.LookupAuthToken,
		cols.WhatsappFrom, cols.WhatsappContentSID,
	)
	if err != nil {
		return fmt.Errorf("update company credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(companyNotFoundMessage)
	}
	return nil
}

// ListIDs returns every company id. Used by the global validation sweep.
func (r *Repo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list company ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
