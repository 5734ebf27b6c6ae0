// Package service implements the number validation worker: it resolves a
// client's raw WhatsApp number to a Valid/Invalid verdict and persists it.
package service

import (
	"context"

	"github.com/google/uuid"

	clientrepo "clientbase/internal/clients/repository"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/events"
	"clientbase/internal/validation/lookup"
	"clientbase/platform/apperr"
	"clientbase/platform/logger"
)

// CredentialSource provides decrypted lookup credentials per company.
type CredentialSource interface {
	Credentials(ctx context.Context, companyID uuid.UUID) (companysvc.Credentials, error)
}

// ClientStore is the roster surface the validation worker writes to.
type ClientStore interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (clientrepo.Client, error)
	SetNumberValidation(ctx context.Context, companyID, id uuid.UUID, status string, e164 *string) error
}

// Notifier pushes validation outcomes to connected company dashboards.
type Notifier interface {
	NotifyCompany(companyID uuid.UUID, event string, payload interface{})
}

// Service runs individual number validations.
type Service struct {
	companies CredentialSource
	clients   ClientStore
	lookup    lookup.NumberLookup
	bus       events.Bus
	notifier  Notifier
	log       *logger.Logger
}

// New creates a validation service. notifier may be nil.
func New(companies CredentialSource, clients ClientStore, nl lookup.NumberLookup, bus events.Bus, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		companies: companies,
		clients:   clients,
		lookup:    nl,
		bus:       bus,
		notifier:  notifier,
		log:       log,
	}
}

// ValidateAndUpdate resolves a single client's number and persists the
// verdict. It is deliberately forgiving:
//   - company or client gone: silent no-op (deleted mid-flight);
//   - lookup credentials missing or undecryptable: the client stays Pending
//     and a warning is logged, so configuring credentials later lets the
//     catch-up sweep retry;
//   - transient failures before a verdict exists (credential or client read):
//     the error is returned so the queue retries, and the client stays
//     Pending, which is never sendable;
//   - anything unexpected after the lookup: the client is forced Invalid
//     rather than left in limbo.
//
// The persisted write is last-write-wins; concurrent validations of the same
// client converge on the most recent verdict.
func (s *Service) ValidateAndUpdate(ctx context.Context, companyID, clientID uuid.UUID) error {
	creds, err := s.companies.Credentials(ctx, companyID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if !creds.HasLookup() {
		s.log.Warn("lookup credentials not configured, client stays pending",
			"companyID", companyID, "clientID", clientID)
		return nil
	}

	client, err := s.clients.GetByID(ctx, companyID, clientID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	verdict := s.lookup.Verify(ctx, *creds.LookupAccountSID, *creds.LookupAuthToken, client.Whatsapp)

	var e164 *string
	if verdict.Status == clientrepo.NumberStatusValid {
		e164 = &verdict.E164
	}

	if err := s.clients.SetNumberValidation(ctx, companyID, clientID, verdict.Status, e164); err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		// The verdict could not be stored; fail safe to Invalid so the
		// client cannot linger half-validated.
		if ferr := s.clients.SetNumberValidation(ctx, companyID, clientID, clientrepo.NumberStatusInvalid, nil); ferr != nil {
			s.log.Error("failed to persist validation verdict",
				"companyID", companyID, "clientID", clientID, "error", err)
			return err
		}
		verdict = lookup.Verdict{Status: clientrepo.NumberStatusInvalid}
		e164 = nil
	}

	s.log.ValidationResult(companyID.String(), clientID.String(), client.Whatsapp, verdict.Status)

	s.bus.Publish(ctx, events.ClientNumberValidated{
		BaseEvent: events.NewBaseEvent(),
		CompanyID: companyID,
		ClientID:  clientID,
		Status:    verdict.Status,
		E164:      e164,
	})

	if s.notifier != nil {
		s.notifier.NotifyCompany(companyID, "client_validation_updated", map[string]interface{}{
			"clientId":     clientID.String(),
			"numberStatus": verdict.Status,
			"e164Format":   e164,
		})
	}

	return nil
}
