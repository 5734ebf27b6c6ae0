// Package service provides business logic for the client roster.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"clientbase/internal/clients/repository"
	"clientbase/internal/clients/transport"
	"clientbase/internal/events"
	"clientbase/platform/logger"
)

// Service provides client roster operations.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new clients service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create adds a client to the roster. The new client starts with
// numberStatus Pending; a ClientNumberPending event triggers async validation.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	status := req.Status
	if status == "" {
		status = repository.StatusUnverified
	}

	created, err := s.repo.Create(ctx, repository.Client{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		Whatsapp:  strings.TrimSpace(req.Whatsapp),
		Status:    status,
	})
	if err != nil {
		return transport.ClientResponse{}, err
	}

	s.bus.Publish(ctx, events.ClientNumberPending{
		BaseEvent: events.NewBaseEvent(),
		CompanyID: companyID,
		ClientID:  created.ID,
	})

	return toResponse(created), nil
}

// List retrieves the company's roster, pending validations first.
func (s *Service) List(ctx context.Context, companyID uuid.UUID) (transport.ClientListResponse, error) {
	clients, err := s.repo.List(ctx, companyID)
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	out := make([]transport.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, toResponse(cl))
	}
	return transport.ClientListResponse{Clients: out, Total: len(out)}, nil
}

// Update overwrites a client's fields. A changed whatsapp number invalidates
// the previous verdict: numberStatus resets to Pending, the stored E.164 is
// cleared, and validation is re-dispatched.
func (s *Service) Update(ctx context.Context, companyID, clientID uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	existing, err := s.repo.GetByID(ctx, companyID, clientID)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	updated := existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.Email = normalizeEmail(req.Email)
	updated.Whatsapp = strings.TrimSpace(req.Whatsapp)
	updated.Status = req.Status

	numberChanged := updated.Whatsapp != existing.Whatsapp
	if numberChanged {
		updated.NumberStatus = repository.NumberStatusPending
		updated.E164Format = nil
	}

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	if numberChanged {
		s.bus.Publish(ctx, events.ClientNumberPending{
			BaseEvent: events.NewBaseEvent(),
			CompanyID: companyID,
			ClientID:  saved.ID,
		})
	}

	return toResponse(saved), nil
}

// Delete removes a client from the roster.
func (s *Service) Delete(ctx context.Context, companyID, clientID uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, clientID)
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toResponse(cl repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ID:           cl.ID.String(),
		Name:         cl.Name,
		Email:        cl.Email,
		Whatsapp:     cl.Whatsapp,
		Status:       cl.Status,
		NumberStatus: cl.NumberStatus,
		E164Format:   cl.E164Format,
		CreatedAt:    cl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cl.UpdatedAt.Format(time.RFC3339),
	}
}
