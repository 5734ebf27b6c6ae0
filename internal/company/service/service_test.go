package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"clientbase/internal/company/repository"
	"clientbase/internal/company/transport"
	"clientbase/platform/apperr"
	"clientbase/platform/logger"
	"clientbase/platform/secrets"
)

type fakeRepo struct {
	companies map[uuid.UUID]repository.Company
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{companies: make(map[uuid.UUID]repository.Company)}
}

func (f *fakeRepo) Create(_ context.Context, c repository.Company) (repository.Company, error) {
	f.companies[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return repository.Company{}, apperr.NotFound("company not found")
	}
	return c, nil
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (repository.Company, error) {
	for _, c := range f.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return repository.Company{}, apperr.NotFound("company not found")
}

func (f *fakeRepo) UpdateCredentials(_ context.Context, id uuid.UUID, cols repository.CredentialColumns) error {
	c, ok := f.companies[id]
	if !ok {
		return apperr.NotFound("company not found")
	}
	if cols.EmailAppPassword != nil {
		c.EmailAppPassword = cols.EmailAppPassword
	}
	if cols.LookupAccountSID != nil {
		c.LookupAccountSID = cols.LookupAccountSID
	}
	if cols.LookupAuthToken != nil {
		c.LookupAuthToken = cols.LookupAuthToken
	}
	if cols.WhatsappFrom != nil {
		c.WhatsappFrom = cols.WhatsappFrom
	}
	if cols.WhatsappContentSID != nil {
		c.WhatsappContentSID = cols.WhatsappContentSID
	}
	f.companies[id] = c
	return nil
}

func (f *fakeRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.companies))
	for id := range f.companies {
		ids = append(ids, id)
	}
	return ids, nil
}

func strptr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	store, err := secrets.NewStore("test-secret")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	repo := newFakeRepo()
	return New(repo, store, logger.New("test")), repo
}

func TestCreate_EncryptsCredentialsAtRest(t *testing.T) {
	svc, repo := newTestService(t)

	account, err := svc.Create(context.Background(), CreateParams{
		Name:             "Acme",
		Whatsapp:         "+22990123456",
		Email:            "acme@example.com",
		PasswordHash:     "bcrypt-hash",
		LookupAccountSID: strptr("AC123"),
		LookupAuthToken:  strptr("token"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored := repo.companies[account.ID]
	if stored.LookupAccountSID == nil || *stored.LookupAccountSID == "AC123" {
		t.Fatal("lookup SID must be stored encrypted")
	}
	if stored.LookupAuthToken == nil || *stored.LookupAuthToken == "token" {
		t.Fatal("auth token must be stored encrypted")
	}
	if stored.EmailAppPassword != nil {
		t.Fatal("absent credential must stay nil")
	}

	creds, err := svc.Credentials(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds.LookupAccountSID == nil || *creds.LookupAccountSID != "AC123" {
		t.Fatalf("expected decrypted SID, got %v", creds.LookupAccountSID)
	}
	if !creds.HasLookup() {
		t.Fatal("expected lookup credentials usable")
	}
	if creds.HasEmail() || creds.HasWhatsapp() {
		t.Fatal("unconfigured channels must report false")
	}
}

func TestSettings_ReportsBooleansOnly(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Create(context.Background(), CreateParams{
		Name:             "Acme",
		Whatsapp:         "+22990123456",
		Email:            "acme@example.com",
		PasswordHash:     "hash",
		EmailAppPassword: strptr("app-pass"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	settings, err := svc.Settings(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if !settings.HasEmailAppPassword {
		t.Fatal("expected email password reported configured")
	}
	if settings.HasLookupCredentials || settings.HasWhatsappFrom || settings.HasWhatsappContentSID {
		t.Fatalf("unconfigured credentials must report false: %+v", settings)
	}
	if settings.Name != "Acme" || settings.Email != "acme@example.com" {
		t.Fatalf("unexpected account echo %+v", settings)
	}
}

func TestUpdateSettings_PartialUpdateKeepsExisting(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Create(context.Background(), CreateParams{
		Name:             "Acme",
		Whatsapp:         "+22990123456",
		Email:            "acme@example.com",
		PasswordHash:     "hash",
		LookupAccountSID: strptr("AC123"),
		LookupAuthToken:  strptr("token"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.UpdateSettings(context.Background(), account.ID, transport.UpdateSettingsRequest{
		WhatsappFrom: strptr("+22960000000"),
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	creds, err := svc.Credentials(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds.WhatsappFrom == nil || *creds.WhatsappFrom != "+22960000000" {
		t.Fatalf("expected whatsapp from updated, got %v", creds.WhatsappFrom)
	}
	if creds.LookupAccountSID == nil || *creds.LookupAccountSID != "AC123" {
		t.Fatal("untouched credential must survive a partial update")
	}
	if !creds.HasWhatsapp() {
		t.Fatal("expected whatsapp sending configured after update")
	}
}

func TestCredentials_UndecryptableDegradesToUnconfigured(t *testing.T) {
	svc, repo := newTestService(t)

	account, err := svc.Create(context.Background(), CreateParams{
		Name:         "Acme",
		Whatsapp:     "+22990123456",
		Email:        "acme@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Simulate ciphertext written under a rotated key.
	stored := repo.companies[account.ID]
	stored.LookupAccountSID = strptr("deadbeef")
	repo.companies[account.ID] = stored

	creds, err := svc.Credentials(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds.LookupAccountSID != nil {
		t.Fatal("undecryptable credential must degrade to nil")
	}
	if creds.HasLookup() {
		t.Fatal("lookup must report unconfigured")
	}
}
