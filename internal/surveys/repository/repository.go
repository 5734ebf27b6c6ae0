// Package repository persists surveys and their responses in PostgreSQL.
// Questions and answers are stored as JSONB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clientbase/platform/apperr"
)

const surveyNotFoundMessage = "survey not found"

// Question types.
const (
	QuestionTypeText = "text"
	QuestionTypeMCQ  = "mcq"
)

// Question is a single survey question.
type Question struct {
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Survey is the persistence model.
type Survey struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Title     string
	Questions []Question
	CreatedAt time.Time
}

// Response is a submitted survey response. Answers align with the survey's
// questions by index.
type Response struct {
	ID          uuid.UUID
	SurveyID    uuid.UUID
	ClientName  string
	Answers     []string
	SubmittedAt time.Time
}

// Repo implements survey persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new surveys repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new survey.
func (r *Repo) Create(ctx context.Context, s Survey) (Survey, error) {
	query := `
		INSERT INTO surveys (id, company_id, title, questions)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, s.ID, s.CompanyID, s.Title, s.Questions).Scan(&s.CreatedAt)
	if err != nil {
		return Survey{}, fmt.Errorf("create survey: %w", err)
	}
	return s, nil
}

// GetByID retrieves a survey scoped to its company.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (Survey, error) {
	query := `
		SELECT id, company_id, title, questions, created_at
		FROM surveys
		WHERE id = $1 AND company_id = $2`

	var s Survey
	err := r.pool.QueryRow(ctx, query, id, companyID).Scan(&s.ID, &s.CompanyID, &s.Title, &s.Questions, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Survey{}, apperr.NotFound(surveyNotFoundMessage)
		}
		return Survey{}, fmt.Errorf("get survey by id: %w", err)
	}
	return s, nil
}

// GetPublic retrieves a survey by id alone, for the unauthenticated form.
func (r *Repo) GetPublic(ctx context.Context, id uuid.UUID) (Survey, error) {
	query := `SELECT id, company_id, title, questions, created_at FROM surveys WHERE id = $1`

	var s Survey
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.CompanyID, &s.Title, &s.Questions, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Survey{}, apperr.NotFound(surveyNotFoundMessage)
		}
		return Survey{}, fmt.Errorf("get public survey: %w", err)
	}
	return s, nil
}

// List retrieves all surveys for a company, newest first.
func (r *Repo) List(ctx context.Context, companyID uuid.UUID) ([]Survey, error) {
	query := `
		SELECT id, company_id, title, questions, created_at
		FROM surveys
		WHERE company_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	var surveys []Survey
	for rows.Next() {
		var s Survey
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Title, &s.Questions, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// Delete removes a survey and, via cascade, its responses.
func (r *Repo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(surveyNotFoundMessage)
	}
	return nil
}

// CreateResponse stores a submitted response.
func (r *Repo) CreateResponse(ctx context.Context, resp Response) error {
	query := `
		INSERT INTO survey_responses (id, survey_id, client_name, answers)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, resp.ID, resp.SurveyID, resp.ClientName, resp.Answers); err != nil {
		return fmt.Errorf("create survey response: %w", err)
	}
	return nil
}

// ListResponses retrieves all responses for a survey, oldest first.
func (r *Repo) ListResponses(ctx context.Context, surveyID uuid.UUID) ([]Response, error) {
	query := `
		SELECT id, survey_id, client_name, answers, submitted_at
		FROM survey_responses
		WHERE survey_id = $1
		ORDER BY submitted_at ASC`

	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.ClientName, &resp.Answers, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan survey response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
