// Package transport defines the request and response DTOs for broadcasts.
package transport

// SendRequest starts a broadcast to a set of roster clients.
// Exactly one of Message or SurveyID provides the content.
type SendRequest struct {
	Message       *string  `json:"message" validate:"omitempty,min=1"`
	SurveyID      *string  `json:"surveyId" validate:"omitempty,uuid"`
	Channel       string   `json:"channel" validate:"required,oneof=email whatsapp"`
	RecipientType string   `json:"recipientType" validate:"required,oneof=all status selection"`
	Status        string   `json:"status" validate:"omitempty,oneof=Verified Unverified"`
	ClientIDs     []string `json:"clientIds" validate:"omitempty,dive,uuid"`
}

// SendResponse reports the outcome of a broadcast. For email the counts are
// zero because delivery continues in the background after the response.
type SendResponse struct {
	Channel    string `json:"channel"`
	Recipients int    `json:"recipients"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	Background bool   `json:"background"`
	Message    string `json:"message"`
}
