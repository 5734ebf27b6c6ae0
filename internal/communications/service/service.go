// Package service implements broadcast delivery over email and WhatsApp.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	clientrepo "clientbase/internal/clients/repository"
	"clientbase/internal/communications/transport"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/email"
	"clientbase/internal/events"
	"clientbase/internal/twilio"
	"clientbase/platform/apperr"
	"clientbase/platform/logger"
)

// maxConcurrentSends bounds the per-broadcast fan-out.
const maxConcurrentSends = 5

const defaultSubject = "Message from %s"

// RecipientSource lists broadcast targets from the roster.
type RecipientSource interface {
	ListRecipients(ctx context.Context, companyID uuid.UUID, filter clientrepo.RecipientFilter) ([]clientrepo.Recipient, error)
}

// CompanySource provides account info and decrypted credentials.
type CompanySource interface {
	GetByID(ctx context.Context, companyID uuid.UUID) (companysvc.Account, error)
	Credentials(ctx context.Context, companyID uuid.UUID) (companysvc.Credentials, error)
}

// SurveyLinker resolves a survey id to its public URL.
type SurveyLinker interface {
	PublicLink(ctx context.Context, companyID, surveyID uuid.UUID) (string, error)
}

// WhatsappSender sends a single WhatsApp message.
type WhatsappSender interface {
	SendWhatsapp(ctx context.Context, msg twilio.WhatsappSend) error
}

// Notifier pushes broadcast completion to connected dashboards.
type Notifier interface {
	NotifyCompany(companyID uuid.UUID, event string, payload interface{})
}

// Service fans broadcasts out to roster clients.
type Service struct {
	recipients RecipientSource
	companies  CompanySource
	surveys    SurveyLinker
	whatsapp   WhatsappSender
	mailer     email.Sender
	bus        events.Bus
	notifier   Notifier
	log        *logger.Logger
}

// New creates a communications service. notifier may be nil.
func New(recipients RecipientSource, companies CompanySource, surveys SurveyLinker, whatsapp WhatsappSender, mailer email.Sender, bus events.Bus, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		recipients: recipients,
		companies:  companies,
		surveys:    surveys,
		whatsapp:   whatsapp,
		mailer:     mailer,
		bus:        bus,
		notifier:   notifier,
		log:        log,
	}
}

// Send starts a broadcast. WhatsApp delivery is synchronous and returns
// per-recipient counts; email returns immediately and delivers in the
// background. A partial failure never fails the whole batch.
func (s *Service) Send(ctx context.Context, companyID uuid.UUID, req transport.SendRequest) (transport.SendResponse, error) {
	content, err := s.resolveContent(ctx, companyID, req)
	if err != nil {
		return transport.SendResponse{}, err
	}

	filter, err := buildFilter(req)
	if err != nil {
		return transport.SendResponse{}, err
	}

	recipients, err := s.recipients.ListRecipients(ctx, companyID, filter)
	if err != nil {
		return transport.SendResponse{}, err
	}

	switch req.Channel {
	case "whatsapp":
		return s.sendWhatsapp(ctx, companyID, content, recipients)
	case "email":
		return s.sendEmail(ctx, companyID, content, recipients)
	default:
		return transport.SendResponse{}, apperr.BadRequest("unsupported channel")
	}
}

func (s *Service) resolveContent(ctx context.Context, companyID uuid.UUID, req transport.SendRequest) (string, error) {
	if req.SurveyID != nil {
		surveyID, err := uuid.Parse(*req.SurveyID)
		if err != nil {
			return "", apperr.BadRequest("invalid survey id")
		}
		link, err := s.surveys.PublicLink(ctx, companyID, surveyID)
		if err != nil {
			return "", err
		}
		return "We would love your feedback! Please take our survey: " + link, nil
	}

	if req.Message == nil || *req.Message == "" {
		return "", apperr.BadRequest("message or surveyId is required")
	}
	return *req.Message, nil
}

func buildFilter(req transport.SendRequest) (clientrepo.RecipientFilter, error) {
	filter := clientrepo.RecipientFilter{
		// Only clients with a confirmed number ever receive WhatsApp.
		ValidNumbersOnly: req.Channel == "whatsapp",
	}

	switch req.RecipientType {
	case "all":
	case "status":
		if req.Status == "" {
			return clientrepo.RecipientFilter{}, apperr.BadRequest("status is required for recipientType status")
		}
		filter.Status = req.Status
	case "selection":
		if len(req.ClientIDs) == 0 {
			return clientrepo.RecipientFilter{}, apperr.BadRequest("clientIds is required for recipientType selection")
		}
		ids := make([]uuid.UUID, 0, len(req.ClientIDs))
		for _, raw := range req.ClientIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return clientrepo.RecipientFilter{}, apperr.BadRequest("invalid client id: " + raw)
			}
			ids = append(ids, id)
		}
		filter.IDs = ids
	}

	return filter, nil
}

func (s *Service) sendWhatsapp(ctx context.Context, companyID uuid.UUID, content string, recipients []clientrepo.Recipient) (transport.SendResponse, error) {
	// Defensive second filter on top of the repository query.
	targets := make([]clientrepo.Recipient, 0, len(recipients))
	for _, rec := range recipients {
		if rec.E164 != nil && *rec.E164 != "" {
			targets = append(targets, rec)
		}
	}
	if len(targets) == 0 {
		return transport.SendResponse{}, apperr.BadRequest("no clients with a validated whatsapp number match")
	}

	creds, err := s.companies.Credentials(ctx, companyID)
	if err != nil {
		return transport.SendResponse{}, err
	}
	if !creds.HasWhatsapp() {
		return transport.SendResponse{}, apperr.BadRequest("whatsapp credentials not configured")
	}

	var mu sync.Mutex
	sent, failed := 0, 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for _, rec := range targets {
		recipient := rec
		g.Go(func() error {
			msg := twilio.WhatsappSend{
				AccountSID: *creds.LookupAccountSID,
				AuthToken:  *creds.LookupAuthToken,
				From:       *creds.WhatsappFrom,
				To:         *recipient.E164,
				Body:       content,
			}
			if creds.WhatsappContentSID != nil {
				msg.ContentSID = *creds.WhatsappContentSID
			}

			err := s.whatsapp.SendWhatsapp(gctx, msg)
			mu.Lock()
			if err != nil {
				failed++
				s.log.Warn("whatsapp send failed", "companyID", companyID, "clientID", recipient.ID, "error", err)
			} else {
				sent++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.bus.Publish(ctx, events.BroadcastCompleted{
		BaseEvent: events.NewBaseEvent(),
		CompanyID: companyID,
		Channel:   "whatsapp",
		Sent:      sent,
		Failed:    failed,
	})

	return transport.SendResponse{
		Channel:    "whatsapp",
		Recipients: len(targets),
		Sent:       sent,
		Failed:     failed,
		Message:    fmt.Sprintf("whatsapp broadcast finished: %d sent, %d failed", sent, failed),
	}, nil
}

func (s *Service) sendEmail(ctx context.Context, companyID uuid.UUID, content string, recipients []clientrepo.Recipient) (transport.SendResponse, error) {
	targets := make([]clientrepo.Recipient, 0, len(recipients))
	for _, rec := range recipients {
		if rec.Email != nil && *rec.Email != "" {
			targets = append(targets, rec)
		}
	}
	if len(targets) == 0 {
		return transport.SendResponse{}, apperr.BadRequest("no clients with an email address match")
	}

	account, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return transport.SendResponse{}, err
	}
	creds, err := s.companies.Credentials(ctx, companyID)
	if err != nil {
		return transport.SendResponse{}, err
	}
	if !creds.HasEmail() {
		return transport.SendResponse{}, apperr.BadRequest("email credentials not configured")
	}

	subject := fmt.Sprintf(defaultSubject, account.Name)
	appPassword := *creds.EmailAppPassword

	// Deliver after the response; SMTP round-trips are too slow to hold the
	// request open for.
	go s.deliverEmails(context.WithoutCancel(ctx), companyID, account, appPassword, subject, content, targets)

	return transport.SendResponse{
		Channel:    "email",
		Recipients: len(targets),
		Background: true,
		Message:    fmt.Sprintf("email broadcast started for %d recipients", len(targets)),
	}, nil
}

func (s *Service) deliverEmails(ctx context.Context, companyID uuid.UUID, account companysvc.Account, appPassword, subject, content string, targets []clientrepo.Recipient) {
	var mu sync.Mutex
	sent, failed := 0, 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for _, rec := range targets {
		recipient := rec
		g.Go(func() error {
			err := s.mailer.Send(gctx, email.Message{
				FromName:    account.Name,
				FromEmail:   account.Email,
				AppPassword: appPassword,
				To:          *recipient.Email,
				Subject:     subject,
				Body:        content,
			})
			mu.Lock()
			if err != nil {
				failed++
				s.log.Warn("email send failed", "companyID", companyID, "clientID", recipient.ID, "error", err)
			} else {
				sent++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("email broadcast finished", "companyID", companyID, "sent", sent, "failed", failed)

	s.bus.Publish(ctx, events.BroadcastCompleted{
		BaseEvent: events.NewBaseEvent(),
		CompanyID: companyID,
		Channel:   "email",
		Sent:      sent,
		Failed:    failed,
	})

	if s.notifier != nil {
		s.notifier.NotifyCompany(companyID, "communication_finished", map[string]interface{}{
			"channel": "email",
			"sent":    sent,
			"failed":  failed,
		})
	}
}
