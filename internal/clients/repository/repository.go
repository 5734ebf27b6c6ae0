// Package repository persists the client roster in PostgreSQL.
// Every query is company-scoped.
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

const clientNotFoundMessage = "client not found"

// Number validation statuses.
const (
	NumberStatusPending = "Pending"
	NumberStatusValid   = "Valid"
	NumberStatusInvalid = "Invalid"
)

// Client statuses.
const (
	StatusVerified   = "Verified"
	StatusUnverified = "Unverified"
)

// Client is the persistence model for a roster entry.
type Client struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Name         string
	Email        *string
	Whatsapp     string
	Status       string
	NumberStatus string
	E164Format   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingClient is the subset of columns the validation sweep needs.
type PendingClient struct {
	ID       uuid.UUID
	Whatsapp string
}

// Recipient is a delivery target for the communications fan-out.
type Recipient struct {
	ID       uuid.UUID
	Name     string
	Email    *string
	Whatsapp string
	E164     *string
}

// RecipientFilter selects delivery targets for a broadcast.
type RecipientFilter struct {
	// Status filters on the client status column when non-empty.
	Status string
	// IDs restricts to an explicit selection when non-empty.
	IDs []uuid.UUID
	// ValidNumbersOnly adds number_status = 'Valid'. Set for WhatsApp sends.
	ValidNumbersOnly bool
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new clients repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const clientColumns = `id, company_id, name, email, whatsapp, status, number_status, e164_format, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var cl Client
	err := row.Scan(
		&cl.ID, &cl.CompanyID, &cl.Name, &cl.Email, &cl.Whatsapp,
		&cl.Status, &cl.NumberStatus, &cl.E164Format, &cl.CreatedAt, &cl.UpdatedAt,
	)
	return cl, err
}

// Create inserts a new client. New clients always start Pending.
func (r *Repo) Create(ctx context.Context, cl Client) (Client, error) {
	query := `
		INSERT INTO clients (id, company_id, name, email, whatsapp, status, number_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + clientColumns

	created, err := scanClient(r.pool.QueryRow(ctx, query,
		cl.ID, cl.CompanyID, cl.Name, cl.Email, cl.Whatsapp, cl.Status, NumberStatusPending,
	))
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return created, nil
}

// GetByID retrieves a client scoped to its company.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND company_id = $2`

	cl, err := scanClient(r.pool.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by id: %w", err)
	}
	return cl, nil
}

// List retrieves all clients for a company, pending validations first.
func (r *Repo) List(ctx context.Context, companyID uuid.UUID) ([]Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE company_id = $1
		ORDER BY number_status, name ASC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// Update overwrites the mutable client fields. When the whatsapp number
// changes, the caller is expected to have already reset NumberStatus and
// E164Format on the passed record.
func (r *Repo) Update(ctx context.Context, cl Client) (Client, error) {
	query := `
		UPDATE clients SET
			name = $3, email = $4, whatsapp = $5, status = $6,
			number_status = $7, e164_format = $8, updated_at = now()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + clientColumns

	updated, err := scanClient(r.pool.QueryRow(ctx, query,
		cl.ID, cl.CompanyID, cl.Name, cl.Email, cl.Whatsapp, cl.Status,
		cl.NumberStatus, cl.E164Format,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return updated, nil
}

// Delete removes a client scoped to its company.
func (r *Repo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

// ListPendingValidation returns clients awaiting number validation.
// NULL number_status rows predate the column and are treated as pending.
func (r *Repo) ListPendingValidation(ctx context.Context, companyID uuid.UUID) ([]PendingClient, error) {
	query := `
		SELECT id, whatsapp
		FROM clients
		WHERE company_id = $1 AND (number_status = $2 OR number_status IS NULL)`

	rows, err := r.pool.Query(ctx, query, companyID, NumberStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending validation: %w", err)
	}
	defer rows.Close()

	var pending []PendingClient
	for rows.Next() {
		var pc PendingClient
		if err := rows.Scan(&pc.ID, &pc.Whatsapp); err != nil {
			return nil, fmt.Errorf("scan pending client: %w", err)
		}
		pending = append(pending, pc)
	}
	return pending, rows.Err()
}

// NumberStatus reads a single client's current number status.
func (r *Repo) NumberStatus(ctx context.Context, companyID, id uuid.UUID) (string, error) {
	var status *string
	err := r.pool.QueryRow(ctx,
		`SELECT number_status FROM clients WHERE id = $1 AND company_id = $2`,
		id, companyID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(clientNotFoundMessage)
		}
		return "", fmt.Errorf("get number status: %w", err)
	}
	if status == nil {
		return NumberStatusPending, nil
	}
	return *status, nil
}

// SetNumberValidation persists a validation verdict. e164 must be non-nil
// exactly when status is Valid; the table CHECK constraint enforces the same.
func (r *Repo) SetNumberValidation(ctx context.Context, companyID, id uuid.UUID, status string, e164 *string) error {
	query := `
		UPDATE clients SET number_status = $3, e164_format = $4, updated_at = now()
		WHERE id = $1 AND company_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, companyID, status, e164)
	if err != nil {
		return fmt.Errorf("set number validation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

// ListRecipients returns broadcast targets matching the filter.
func (r *Repo) ListRecipients(ctx context.Context, companyID uuid.UUID, filter RecipientFilter) ([]Recipient, error) {
	query := `
		SELECT id, name, email, whatsapp, e164_format
		FROM clients
		WHERE company_id = $1`
	args := []interface{}{companyID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		query += fmt.Sprintf(" AND id = ANY($%d)", len(args))
	}
	if filter.ValidNumbersOnly {
		args = append(args, NumberStatusValid)
		query += fmt.Sprintf(" AND number_status = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Whatsapp, &rec.E164); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func collectClients(rows pgx.Rows) ([]Client, error) {
	var clients []Client
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, cl)
	}
	return clients, rows.Err()
}
