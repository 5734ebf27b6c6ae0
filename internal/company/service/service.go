// Package service provides business logic for company accounts and settings.
package service

import (
	"context"

	"github.com/google/uuid"

	"clientbase/internal/company/repository"
	"clientbase/internal/company/transport"
	"clientbase/platform/logger"
	"clientbase/platform/secrets"
)

// Service provides company account operations.
type Service struct {
	repo    repository.Repository
	secrets *secrets.Store
	log     *logger.Logger
}

// New creates a new company service.
func New(repo repository.Repository, store *secrets.Store, log *logger.Logger) *Service {
	return &Service{repo: repo, secrets: store, log: log}
}

// CreateParams carries everything needed to register a company account.
// Credential values are plaintext here and encrypted before persistence.
type CreateParams struct {
	Name               string
	Whatsapp           string
	Email              string
	PasswordHash       string
	EmailAppPassword   *string
	LookupAccountSID   *string
	LookupAuthToken    *string
	WhatsappFrom       *string
	WhatsappContentSID *string
}

// Create registers a new company with encrypted credentials.
func (s *Service) Create(ctx context.Context, params CreateParams) (Account, error) {
	record := repository.Company{
		ID:           uuid.New(),
		Name:         params.Name,
		Whatsapp:     params.Whatsapp,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
	}

	var err error
	if record.EmailAppPassword, err = s.secrets.EncryptOptional(params.EmailAppPassword); err != nil {
		return Account{}, err
	}
	if record.LookupAccountSID, err = s.secrets.EncryptOptional(params.LookupAccountSID); err != nil {
		return Account{}, err
	}
	if record.LookupAuthToken, err = s.secrets.EncryptOptional(params.LookupAuthToken); err != nil {
		return Account{}, err
	}
	if record.WhatsappFrom, err = s.secrets.EncryptOptional(params.WhatsappFrom); err != nil {
		return Account{}, err
	}
	if record.WhatsappContentSID, err = s.secrets.EncryptOptional(params.WhatsappContentSID); err != nil {
		return Account{}, err
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return Account{}, err
	}
	return toAccount(created), nil
}

// GetByID returns the account record for a company.
func (s *Service) GetByID(ctx context.Context, companyID uuid.UUID) (Account, error) {
	record, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return Account{}, err
	}
	return toAccount(record), nil
}

// AuthRecord is the subset of the company row the auth service needs.
type AuthRecord struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// GetAuthByName returns the login record for a company name.
func (s *Service) GetAuthByName(ctx context.Context, name string) (AuthRecord, error) {
	record, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return AuthRecord{}, err
	}
	return AuthRecord{ID: record.ID, Name: record.Name, PasswordHash: record.PasswordHash}, nil
}

// Settings returns which credentials are configured, as booleans.
func (s *Service) Settings(ctx context.Context, companyID uuid.UUID) (transport.SettingsResponse, error) {
	record, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	creds := s.decrypt(record)
	return transport.SettingsResponse{
		Name:                  record.Name,
		Whatsapp:              record.Whatsapp,
		Email:                 record.Email,
		HasEmailAppPassword:   creds.EmailAppPassword != nil,
		HasLookupCredentials:  creds.HasLookup(),
		HasWhatsappFrom:       creds.WhatsappFrom != nil,
		HasWhatsappContentSID: creds.WhatsappContentSID != nil,
	}, nil
}

// UpdateSettings applies a partial credential update, encrypting provided values.
func (s *Service) UpdateSettings(ctx context.Context, companyID uuid.UUID, req transport.UpdateSettingsRequest) error {
	var cols repository.CredentialColumns
	var err error

	if cols.EmailAppPassword, err = s.secrets.EncryptOptional(req.EmailAppPassword); err != nil {
		return err
	}
	if cols.LookupAccountSID, err = s.secrets.EncryptOptional(req.LookupAccountSID); err != nil {
		return err
	}
	if cols.LookupAuthToken, err = s.secrets.EncryptOptional(req.LookupAuthToken); err != nil {
		return err
	}
	if cols.WhatsappFrom, err = s.secrets.EncryptOptional(req.WhatsappFrom); err != nil {
		return err
	}
	if cols.WhatsappContentSID, err = s.secrets.EncryptOptional(req.WhatsappContentSID); err != nil {
		return err
	}

	return s.repo.UpdateCredentials(ctx, companyID, cols)
}

// Credentials returns the decrypted credentials for a company.
func (s *Service) Credentials(ctx context.Context, companyID uuid.UUID) (Credentials, error) {
	record, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return Credentials{}, err
	}
	return s.decrypt(record), nil
}

// ListIDs returns all company ids for the global sweep.
func (s *Service) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDs(ctx)
}

func (s *Service) decrypt(record repository.Company) Credentials {
	return Credentials{
		EmailAppPassword:   s.secrets.DecryptOptional(record.EmailAppPassword),
		LookupAccountSID:   s.secrets.DecryptOptional(record.LookupAccountSID),
		LookupAuthToken:    s.secrets.DecryptOptional(record.LookupAuthToken),
		WhatsappFrom:       s.secrets.DecryptOptional(record.WhatsappFrom),
		WhatsappContentSID: s.secrets.DecryptOptional(record.WhatsappContentSID),
	}
}

func toAccount(record repository.Company) Account {
	return Account{
		ID:        record.ID,
		Name:      record.Name,
		Whatsapp:  record.Whatsapp,
		Email:     record.Email,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
