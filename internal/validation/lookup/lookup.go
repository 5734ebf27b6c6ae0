// Package lookup resolves raw WhatsApp numbers to validation verdicts
// through the Twilio Lookup API.
package lookup

import (
	"context"

	"clientbase/internal/clients/repository"
	"clientbase/internal/twilio"
	"clientbase/platform/logger"
	"clientbase/platform/phone"
)

// Verdict is the outcome of a number lookup.
type Verdict struct {
	// Status is NumberStatusValid or NumberStatusInvalid.
	Status string
	// E164 is the canonical number when Status is Valid, empty otherwise.
	E164 string
}

// NumberLookup resolves a raw number to a verdict using per-company
// credentials. Implementations never return transport errors: any failure
// is an Invalid verdict, with the reason logged.
type NumberLookup interface {
	Verify(ctx context.Context, accountSID, authToken, rawNumber string) Verdict
}

// TwilioLookup implements NumberLookup against the Twilio Lookup v1 API.
type TwilioLookup struct {
	client *twilio.LookupClient
	log    *logger.Logger
}

// New creates a Twilio-backed number lookup.
func New(client *twilio.LookupClient, log *logger.Logger) *TwilioLookup {
	return &TwilioLookup{client: client, log: log}
}

// Compile-time check that TwilioLookup implements NumberLookup.
var _ NumberLookup = (*TwilioLookup)(nil)

// Verify normalizes the raw number and asks the lookup API whether it
// exists. The API not knowing the number is a normal Invalid outcome, not
// an error condition.
func (t *TwilioLookup) Verify(ctx context.Context, accountSID, authToken, rawNumber string) Verdict {
	normalized := phone.Normalize(rawNumber)
	if normalized == "" {
		return Verdict{Status: repository.NumberStatusInvalid}
	}

	e164, err := t.client.Lookup(ctx, accountSID, authToken, normalized)
	if err != nil {
		t.log.Debug("number lookup failed", "number", normalized, "error", err)
		return Verdict{Status: repository.NumberStatusInvalid}
	}

	return Verdict{Status: repository.NumberStatusValid, E164: e164}
}
