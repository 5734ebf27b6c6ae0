// Package transport defines the request and response DTOs for the client roster.
package transport

// CreateClientRequest adds a client to the roster.
type CreateClientRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Whatsapp string  `json:"whatsapp" validate:"required,min=6,max=20"`
	Status   string  `json:"status" validate:"omitempty,oneof=Verified Unverified"`
}

// UpdateClientRequest overwrites a client's mutable fields.
type UpdateClientRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Whatsapp string  `json:"whatsapp" validate:"required,min=6,max=20"`
	Status   string  `json:"status" validate:"required,oneof=Verified Unverified"`
}

// ClientResponse is the roster entry payload.
type ClientResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Whatsapp     string  `json:"whatsapp"`
	Status       string  `json:"status"`
	NumberStatus string  `json:"numberStatus"`
	E164Format   *string `json:"e164Format"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ClientListResponse wraps a roster listing.
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}
