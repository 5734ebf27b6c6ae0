// Package transport defines the request and response DTOs for authentication.
package transport

// RegisterRequest creates a new company account. Credential fields are
// optional; they can also be configured later through company settings.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Whatsapp        string `json:"whatsapp" validate:"required,min=6,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`

	EmailAppPassword   *string `json:"emailAppPassword" validate:"omitempty,min=1"`
	LookupAccountSID   *string `json:"lookupAccountSid" validate:"omitempty,min=1"`
	LookupAuthToken    *string `json:"lookupAuthToken" validate:"omitempty,min=1"`
	WhatsappFrom       *string `json:"whatsappFrom" validate:"omitempty,min=1"`
	WhatsappContentSID *string `json:"whatsappContentSid" validate:"omitempty,min=1"`
}

// LoginRequest authenticates a company by name and password.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest revokes a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CompanyResponse is the account payload returned after register/login.
type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// AuthResponse carries the issued token pair.
type AuthResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Company      CompanyResponse `json:"company"`
}
