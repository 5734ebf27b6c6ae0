// Package service provides business logic for surveys and their results.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clientbase/internal/surveys/repository"
	"clientbase/internal/surveys/transport"
	"clientbase/platform/config"
	"clientbase/platform/logger"
)

const anonymousClientName = "Anonymous"

// Service provides survey operations.
type Service struct {
	repo repository.Repository
	cfg  config.PublicConfig
	log  *logger.Logger
}

// New creates a new surveys service.
func New(repo repository.Repository, cfg config.PublicConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Create stores a new survey.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req transport.CreateSurveyRequest) (transport.SurveyResponse, error) {
	questions := make([]repository.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		question := repository.Question{Text: strings.TrimSpace(q.Text), Type: q.Type}
		if q.Type == repository.QuestionTypeMCQ {
			question.Options = q.Options
		}
		questions = append(questions, question)
	}

	created, err := s.repo.Create(ctx, repository.Survey{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     strings.TrimSpace(req.Title),
		Questions: questions,
	})
	if err != nil {
		return transport.SurveyResponse{}, err
	}
	return s.toResponse(created), nil
}

// List retrieves all surveys for a company, without responses.
func (s *Service) List(ctx context.Context, companyID uuid.UUID) (transport.SurveyListResponse, error) {
	surveys, err := s.repo.List(ctx, companyID)
	if err != nil {
		return transport.SurveyListResponse{}, err
	}

	out := make([]transport.SurveyResponse, 0, len(surveys))
	for _, sv := range surveys {
		out = append(out, s.toResponse(sv))
	}
	return transport.SurveyListResponse{Surveys: out, Total: len(out)}, nil
}

// Delete removes a survey and its responses.
func (s *Service) Delete(ctx context.Context, companyID, surveyID uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, surveyID)
}

// Results returns all responses plus per-option tallies for MCQ questions.
func (s *Service) Results(ctx context.Context, companyID, surveyID uuid.UUID) (transport.ResultsResponse, error) {
	survey, err := s.repo.GetByID(ctx, companyID, surveyID)
	if err != nil {
		return transport.ResultsResponse{}, err
	}

	responses, err := s.repo.ListResponses(ctx, surveyID)
	if err != nil {
		return transport.ResultsResponse{}, err
	}

	entries := make([]transport.ResponseEntry, 0, len(responses))
	for _, resp := range responses {
		entries = append(entries, transport.ResponseEntry{
			ClientName:  resp.ClientName,
			Answers:     resp.Answers,
			SubmittedAt: resp.SubmittedAt.Format(time.RFC3339),
		})
	}

	return transport.ResultsResponse{
		Survey:    s.toResponse(survey),
		Responses: entries,
		Stats:     buildStats(survey.Questions, responses),
		Total:     len(entries),
	}, nil
}

// GetPublic returns the unauthenticated survey form payload.
func (s *Service) GetPublic(ctx context.Context, surveyID uuid.UUID) (transport.SurveyResponse, error) {
	survey, err := s.repo.GetPublic(ctx, surveyID)
	if err != nil {
		return transport.SurveyResponse{}, err
	}

	resp := s.toResponse(survey)
	resp.PublicURL = ""
	return resp, nil
}

// SubmitResponse stores a public submission. Missing client names default
// to Anonymous.
func (s *Service) SubmitResponse(ctx context.Context, surveyID uuid.UUID, req transport.SubmitResponseRequest) error {
	if _, err := s.repo.GetPublic(ctx, surveyID); err != nil {
		return err
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		name = anonymousClientName
	}

	return s.repo.CreateResponse(ctx, repository.Response{
		ID:         uuid.New(),
		SurveyID:   surveyID,
		ClientName: name,
		Answers:    req.Answers,
	})
}

// PublicLink resolves a survey id to its public URL, verifying ownership.
func (s *Service) PublicLink(ctx context.Context, companyID, surveyID uuid.UUID) (string, error) {
	if _, err := s.repo.GetByID(ctx, companyID, surveyID); err != nil {
		return "", err
	}
	return s.publicURL(surveyID), nil
}

func (s *Service) publicURL(surveyID uuid.UUID) string {
	base := strings.TrimRight(s.cfg.GetAppBaseURL(), "/")
	return fmt.Sprintf("%s/surveys/%s", base, surveyID)
}

func (s *Service) toResponse(sv repository.Survey) transport.SurveyResponse {
	questions := make([]transport.QuestionDTO, 0, len(sv.Questions))
	for _, q := range sv.Questions {
		questions = append(questions, transport.QuestionDTO{
			Text:    q.Text,
			Type:    q.Type,
			Options: q.Options,
		})
	}

	return transport.SurveyResponse{
		ID:        sv.ID.String(),
		Title:     sv.Title,
		Questions: questions,
		PublicURL: s.publicURL(sv.ID),
		CreatedAt: sv.CreatedAt.Format(time.RFC3339),
	}
}

// buildStats tallies answers per option for every MCQ question. Answers align
// with questions by index; out-of-range or free-text answers are ignored.
func buildStats(questions []repository.Question, responses []repository.Response) []transport.QuestionStats {
	var stats []transport.QuestionStats
	for i, q := range questions {
		if q.Type != repository.QuestionTypeMCQ {
			continue
		}

		counts := make(map[string]int, len(q.Options))
		for _, resp := range responses {
			if i >= len(resp.Answers) {
				continue
			}
			counts[resp.Answers[i]]++
		}

		optionCounts := make([]transport.OptionCount, 0, len(q.Options))
		for _, option := range q.Options {
			optionCounts = append(optionCounts, transport.OptionCount{
				Option: option,
				Count:  counts[option],
			})
		}

		stats = append(stats, transport.QuestionStats{
			QuestionIndex: i,
			Question:      q.Text,
			Counts:        optionCounts,
		})
	}
	return stats
}
