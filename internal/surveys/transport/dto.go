// Package transport defines the request and response DTOs for surveys.
package transport

// QuestionDTO is a survey question in requests and responses.
type QuestionDTO struct {
	Text    string   `json:"text" validate:"required,min=1"`
	Type    string   `json:"type" validate:"required,oneof=text mcq"`
	Options []string `json:"options" validate:"required_if=Type mcq,omitempty,min=2,dive,min=1"`
}

// CreateSurveyRequest creates a survey.
type CreateSurveyRequest struct {
	Title     string        `json:"title" validate:"required,min=1,max=200"`
	Questions []QuestionDTO `json:"questions" validate:"required,min=1,dive"`
}

// SurveyResponse is the survey payload.
type SurveyResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Questions []QuestionDTO `json:"questions"`
	PublicURL string        `json:"publicUrl,omitempty"`
	CreatedAt string        `json:"createdAt"`
}

// SurveyListResponse wraps a survey listing.
type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
	Total   int              `json:"total"`
}

// SubmitResponseRequest is a public survey submission.
type SubmitResponseRequest struct {
	ClientName string   `json:"clientName" validate:"omitempty,max=120"`
	Answers    []string `json:"answers" validate:"required,min=1"`
}

// ResponseEntry is one submitted response in the results payload.
type ResponseEntry struct {
	ClientName  string   `json:"clientName"`
	Answers     []string `json:"answers"`
	SubmittedAt string   `json:"submittedAt"`
}

// OptionCount is the tally for one MCQ option.
type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// QuestionStats aggregates MCQ answers for one question.
type QuestionStats struct {
	QuestionIndex int           `json:"questionIndex"`
	Question      string        `json:"question"`
	Counts        []OptionCount `json:"counts"`
}

// ResultsResponse is the full results payload for a survey.
type ResultsResponse struct {
	Survey    SurveyResponse  `json:"survey"`
	Responses []ResponseEntry `json:"responses"`
	Stats     []QuestionStats `json:"stats"`
	Total     int             `json:"total"`
}
