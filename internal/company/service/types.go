package service

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a company account shared with other domains.
type Account struct {
	ID        uuid.UUID
	Name      string
	Whatsapp  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credentials holds a company's decrypted third-party credentials.
// A nil field means the credential is not configured (or could not be
// decrypted). Values exist only transiently in memory.
type Credentials struct {
	EmailAppPassword   *string
	LookupAccountSID   *string
	LookupAuthToken    *string
	WhatsappFrom       *string
	WhatsappContentSID *string
}

// HasLookup reports whether the lookup API credentials are usable.
func (c Credentials) HasLookup() bool {
	return c.LookupAccountSID != nil && c.LookupAuthToken != nil
}

// HasEmail reports whether the SMTP app password is configured.
func (c Credentials) HasEmail() bool {
	return c.EmailAppPassword != nil
}

// HasWhatsapp reports whether outbound WhatsApp sending is configured.
func (c Credentials) HasWhatsapp() bool {
	return c.HasLookup() && c.WhatsappFrom != nil
}
