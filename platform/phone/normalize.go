// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion      = "BJ"
	defaultCountryCode = "+229"
	localNumberLength  = 8
)

// Normalize prepares a raw phone string for a lookup call. It strips every
// character except digits and a leading +. A bare number matching the local
// format (8 digits) gets the default country code prefixed; anything else is
// passed through unchanged and left for the remote service to resolve.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	var b strings.Builder
	for i, r := range trimmed {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == localNumberLength {
		return defaultCountryCode + cleaned
	}
	return cleaned
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns
// the output of Normalize so the caller still gets the cleaned-up input.
func NormalizeE164(input string) string {
	cleaned := Normalize(input)
	if cleaned == "" {
		return cleaned
	}

	number, err := phonenumbers.Parse(cleaned, defaultRegion)
	if err != nil {
		return cleaned
	}

	if !phonenumbers.IsValidNumber(number) {
		return cleaned
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
