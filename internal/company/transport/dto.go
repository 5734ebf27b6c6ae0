// Package transport defines the request and response DTOs for the company context.
package transport

// SettingsResponse reports which credentials are configured, never their values.
type SettingsResponse struct {
	Name                  string `json:"name"`
	Whatsapp              string `json:"whatsapp"`
	Email                 string `json:"email"`
	HasEmailAppPassword   bool   `json:"hasEmailAppPassword"`
	HasLookupCredentials  bool   `json:"hasLookupCredentials"`
	HasWhatsappFrom       bool   `json:"hasWhatsappFrom"`
	HasWhatsappContentSID bool   `json:"hasWhatsappContentSid"`
}

// UpdateSettingsRequest is a partial credential update. Omitted fields are
// left unchanged; provided values are encrypted before persistence.
type UpdateSettingsRequest struct {
	EmailAppPassword   *string `json:"emailAppPassword" validate:"omitempty,min=1"`
	LookupAccountSID   *string `json:"lookupAccountSid" validate:"omitempty,min=1"`
	LookupAuthToken    *string `json:"lookupAuthToken" validate:"omitempty,min=1"`
	WhatsappFrom       *string `json:"whatsappFrom" validate:"omitempty,min=1"`
	WhatsappContentSID *string `json:"whatsappContentSid" validate:"omitempty,min=1"`
}
