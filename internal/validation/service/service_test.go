package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	clientrepo "clientbase/internal/clients/repository"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/events"
	"clientbase/internal/validation/lookup"
	"clientbase/platform/apperr"
	"clientbase/platform/logger"
)

type fakeCredentials struct {
	creds companysvc.Credentials
	err   error
}

func (f *fakeCredentials) Credentials(_ context.Context, _ uuid.UUID) (companysvc.Credentials, error) {
	return f.creds, f.err
}

type fakeClientStore struct {
	client    clientrepo.Client
	getErr    error
	setErr    error
	setCalls  []setCall
	failFirst bool
}

type setCall struct {
	status string
	e164   *string
}

func (f *fakeClientStore) GetByID(_ context.Context, _, _ uuid.UUID) (clientrepo.Client, error) {
	return f.client, f.getErr
}

func (f *fakeClientStore) SetNumberValidation(_ context.Context, _, _ uuid.UUID, status string, e164 *string) error {
	f.setCalls = append(f.setCalls, setCall{status: status, e164: e164})
	if f.failFirst && len(f.setCalls) == 1 {
		return f.setErr
	}
	if f.failFirst {
		return nil
	}
	return f.setErr
}

type fakeLookup struct {
	verdict lookup.Verdict
	calls   int
}

func (f *fakeLookup) Verify(_ context.Context, _, _, _ string) lookup.Verdict {
	f.calls++
	return f.verdict
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) NotifyCompany(_ uuid.UUID, event string, _ interface{}) {
	f.events = append(f.events, event)
}

func strptr(s string) *string { return &s }

func lookupCreds() companysvc.Credentials {
	return companysvc.Credentials{
		LookupAccountSID: strptr("AC123"),
		LookupAuthToken:  strptr("token"),
	}
}

func newTestService(creds *fakeCredentials, store *fakeClientStore, nl *fakeLookup, notifier Notifier) (*Service, *events.InMemoryBus) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	return New(creds, store, nl, bus, notifier, log), bus
}

func TestValidateAndUpdate_ValidVerdictStoresE164(t *testing.T) {
	store := &fakeClientStore{client: clientrepo.Client{Whatsapp: "90123456"}}
	nl := &fakeLookup{verdict: lookup.Verdict{Status: clientrepo.NumberStatusValid, E164: "+22990123456"}}
	notifier := &fakeNotifier{}
	svc, bus := newTestService(&fakeCredentials{creds: lookupCreds()}, store, nl, notifier)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("ValidateAndUpdate: %v", err)
	}
	bus.Wait()

	if len(store.setCalls) != 1 {
		t.Fatalf("expected 1 persist call, got %d", len(store.setCalls))
	}
	call := store.setCalls[0]
	if call.status != clientrepo.NumberStatusValid {
		t.Fatalf("expected Valid, got %q", call.status)
	}
	if call.e164 == nil || *call.e164 != "+22990123456" {
		t.Fatalf("expected e164 +22990123456, got %v", call.e164)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "client_validation_updated" {
		t.Fatalf("expected one client_validation_updated notification, got %v", notifier.events)
	}
}

func TestValidateAndUpdate_InvalidVerdictClearsE164(t *testing.T) {
	store := &fakeClientStore{client: clientrepo.Client{Whatsapp: "bogus"}}
	nl := &fakeLookup{verdict: lookup.Verdict{Status: clientrepo.NumberStatusInvalid}}
	svc, bus := newTestService(&fakeCredentials{creds: lookupCreds()}, store, nl, nil)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("ValidateAndUpdate: %v", err)
	}
	bus.Wait()

	if len(store.setCalls) != 1 {
		t.Fatalf("expected 1 persist call, got %d", len(store.setCalls))
	}
	if store.setCalls[0].status != clientrepo.NumberStatusInvalid {
		t.Fatalf("expected Invalid, got %q", store.setCalls[0].status)
	}
	if store.setCalls[0].e164 != nil {
		t.Fatalf("expected nil e164 for invalid number, got %q", *store.setCalls[0].e164)
	}
}

func TestValidateAndUpdate_MissingCredentialsStaysPending(t *testing.T) {
	store := &fakeClientStore{client: clientrepo.Client{Whatsapp: "90123456"}}
	nl := &fakeLookup{}
	svc, _ := newTestService(&fakeCredentials{creds: companysvc.Credentials{}}, store, nl, nil)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("ValidateAndUpdate: %v", err)
	}

	if nl.calls != 0 {
		t.Fatalf("expected no lookup call without credentials, got %d", nl.calls)
	}
	if len(store.setCalls) != 0 {
		t.Fatalf("expected no persist call without credentials, got %d", len(store.setCalls))
	}
}

func TestValidateAndUpdate_CompanyGoneIsNoop(t *testing.T) {
	store := &fakeClientStore{}
	nl := &fakeLookup{}
	creds := &fakeCredentials{err: apperr.NotFound("company not found")}
	svc, _ := newTestService(creds, store, nl, nil)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected nil for deleted company, got %v", err)
	}
	if nl.calls != 0 {
		t.Fatalf("expected no lookup call, got %d", nl.calls)
	}
}

func TestValidateAndUpdate_ClientGoneIsNoop(t *testing.T) {
	store := &fakeClientStore{getErr: apperr.NotFound("client not found")}
	nl := &fakeLookup{}
	svc, _ := newTestService(&fakeCredentials{creds: lookupCreds()}, store, nl, nil)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected nil for deleted client, got %v", err)
	}
	if nl.calls != 0 {
		t.Fatalf("expected no lookup call, got %d", nl.calls)
	}
}

func TestValidateAndUpdate_PersistFailureFallsBackToInvalid(t *testing.T) {
	store := &fakeClientStore{
		client:    clientrepo.Client{Whatsapp: "90123456"},
		setErr:    apperr.Internal("db down"),
		failFirst: true,
	}
	nl := &fakeLookup{verdict: lookup.Verdict{Status: clientrepo.NumberStatusValid, E164: "+22990123456"}}
	svc, bus := newTestService(&fakeCredentials{creds: lookupCreds()}, store, nl, nil)

	if err := svc.ValidateAndUpdate(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("ValidateAndUpdate: %v", err)
	}
	bus.Wait()

	if len(store.setCalls) != 2 {
		t.Fatalf("expected retry after failed persist, got %d calls", len(store.setCalls))
	}
	fallback := store.setCalls[1]
	if fallback.status != clientrepo.NumberStatusInvalid || fallback.e164 != nil {
		t.Fatalf("expected forced Invalid with nil e164, got %q %v", fallback.status, fallback.e164)
	}
}
