package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"clientbase/internal/clients/repository"
	"clientbase/internal/clients/transport"
	"clientbase/internal/events"
	"clientbase/platform/logger"
)

type fakeRepo struct {
	clients map[uuid.UUID]repository.Client
	created []repository.Client
	updated []repository.Client
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clients: make(map[uuid.UUID]repository.Client)}
}

func (f *fakeRepo) Create(_ context.Context, cl repository.Client) (repository.Client, error) {
	cl.NumberStatus = repository.NumberStatusPending
	f.clients[cl.ID] = cl
	f.created = append(f.created, cl)
	return cl, nil
}

func (f *fakeRepo) GetByID(_ context.Context, _, id uuid.UUID) (repository.Client, error) {
	return f.clients[id], nil
}

func (f *fakeRepo) List(_ context.Context, _ uuid.UUID) ([]repository.Client, error) {
	out := make([]repository.Client, 0, len(f.clients))
	for _, cl := range f.clients {
		out = append(out, cl)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, cl repository.Client) (repository.Client, error) {
	f.clients[cl.ID] = cl
	f.updated = append(f.updated, cl)
	return cl, nil
}

func (f *fakeRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(f.clients, id)
	return nil
}

func (f *fakeRepo) ListPendingValidation(_ context.Context, _ uuid.UUID) ([]repository.PendingClient, error) {
	return nil, nil
}

func (f *fakeRepo) NumberStatus(_ context.Context, _, id uuid.UUID) (string, error) {
	return f.clients[id].NumberStatus, nil
}

func (f *fakeRepo) SetNumberValidation(_ context.Context, _, _ uuid.UUID, _ string, _ *string) error {
	return nil
}

func (f *fakeRepo) ListRecipients(_ context.Context, _ uuid.UUID, _ repository.RecipientFilter) ([]repository.Recipient, error) {
	return nil, nil
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(_ string, _ events.Handler) {}

func strptr(s string) *string { return &s }

func TestCreate_StartsPendingAndPublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("test"))
	companyID := uuid.New()

	resp, err := svc.Create(context.Background(), companyID, transport.CreateClientRequest{
		Name:     "  Ada  ",
		Whatsapp: " 90123456 ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", resp.Name)
	}
	if resp.Whatsapp != "90123456" {
		t.Fatalf("expected trimmed whatsapp, got %q", resp.Whatsapp)
	}
	if resp.NumberStatus != repository.NumberStatusPending {
		t.Fatalf("expected new client Pending, got %q", resp.NumberStatus)
	}
	if resp.Status != repository.StatusUnverified {
		t.Fatalf("expected default Unverified status, got %q", resp.Status)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	pending, ok := bus.events[0].(events.ClientNumberPending)
	if !ok {
		t.Fatalf("expected ClientNumberPending, got %T", bus.events[0])
	}
	if pending.CompanyID != companyID {
		t.Fatal("event carries wrong company id")
	}
}

func TestCreate_NormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &recordingBus{}, logger.New("test"))

	resp, err := svc.Create(context.Background(), uuid.New(), transport.CreateClientRequest{
		Name:     "Ada",
		Email:    strptr("  Ada@Example.COM "),
		Whatsapp: "90123456",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Email == nil || *resp.Email != "ada@example.com" {
		t.Fatalf("expected lowercased trimmed email, got %v", resp.Email)
	}
}

func TestUpdate_ChangedNumberResetsValidation(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("test"))
	companyID := uuid.New()

	clientID := uuid.New()
	e164 := "+22990123456"
	repo.clients[clientID] = repository.Client{
		ID:           clientID,
		CompanyID:    companyID,
		Name:         "Ada",
		Whatsapp:     "90123456",
		Status:       repository.StatusVerified,
		NumberStatus: repository.NumberStatusValid,
		E164Format:   &e164,
	}

	resp, err := svc.Update(context.Background(), companyID, clientID, transport.UpdateClientRequest{
		Name:     "Ada",
		Whatsapp: "97000000",
		Status:   repository.StatusVerified,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if resp.NumberStatus != repository.NumberStatusPending {
		t.Fatalf("expected reset to Pending, got %q", resp.NumberStatus)
	}
	if resp.E164Format != nil {
		t.Fatalf("expected cleared e164, got %q", *resp.E164Format)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected revalidation event, got %d events", len(bus.events))
	}
	if _, ok := bus.events[0].(events.ClientNumberPending); !ok {
		t.Fatalf("expected ClientNumberPending, got %T", bus.events[0])
	}
}

func TestUpdate_UnchangedNumberKeepsVerdict(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("test"))
	companyID := uuid.New()

	clientID := uuid.New()
	e164 := "+22990123456"
	repo.clients[clientID] = repository.Client{
		ID:           clientID,
		CompanyID:    companyID,
		Name:         "Ada",
		Whatsapp:     "90123456",
		Status:       repository.StatusUnverified,
		NumberStatus: repository.NumberStatusValid,
		E164Format:   &e164,
	}

	resp, err := svc.Update(context.Background(), companyID, clientID, transport.UpdateClientRequest{
		Name:     "Ada Lovelace",
		Whatsapp: "90123456",
		Status:   repository.StatusVerified,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if resp.NumberStatus != repository.NumberStatusValid {
		t.Fatalf("expected verdict kept, got %q", resp.NumberStatus)
	}
	if resp.E164Format == nil || *resp.E164Format != e164 {
		t.Fatalf("expected e164 kept, got %v", resp.E164Format)
	}
	if len(bus.events) != 0 {
		t.Fatalf("expected no revalidation event, got %d", len(bus.events))
	}
}

func TestDelete_RemovesClient(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &recordingBus{}, logger.New("test"))
	companyID := uuid.New()

	clientID := uuid.New()
	repo.clients[clientID] = repository.Client{ID: clientID, CompanyID: companyID}

	if err := svc.Delete(context.Background(), companyID, clientID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.clients[clientID]; ok {
		t.Fatal("expected client removed")
	}
}
