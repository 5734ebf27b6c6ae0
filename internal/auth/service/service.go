// Package service implements company registration, login, and token rotation.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"clientbase/internal/auth/password"
	"clientbase/internal/auth/repository"
	"clientbase/internal/auth/token"
	"clientbase/internal/auth/transport"
	companysvc "clientbase/internal/company/service"
	"clientbase/internal/events"
	"clientbase/platform/apperr"
	"clientbase/platform/config"
	"clientbase/platform/logger"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	msgInvalidCredentials = "invalid company name or password"
)

// Accounts is the company-context surface the auth service needs.
type Accounts interface {
	Create(ctx context.Context, params companysvc.CreateParams) (companysvc.Account, error)
	GetAuthByName(ctx context.Context, name string) (companysvc.AuthRecord, error)
	GetByID(ctx context.Context, companyID uuid.UUID) (companysvc.Account, error)
}

// Service provides authentication operations for company accounts.
type Service struct {
	accounts Accounts
	repo     repository.Repository
	cfg      config.AuthServiceConfig
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new auth service.
func New(accounts Accounts, repo repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{accounts: accounts, repo: repo, cfg: cfg, bus: bus, log: log}
}

// Register creates a company account and issues the first token pair.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal("failed to process password")
	}

	account, err := s.accounts.Create(ctx, companysvc.CreateParams{
		Name:               strings.TrimSpace(req.Name),
		Whatsapp:           strings.TrimSpace(req.Whatsapp),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       hash,
		EmailAppPassword:   req.EmailAppPassword,
		LookupAccountSID:   req.LookupAccountSID,
		LookupAuthToken:    req.LookupAuthToken,
		WhatsappFrom:       req.WhatsappFrom,
		WhatsappContentSID: req.WhatsappContentSID,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Name, false, "create failed")
		return transport.AuthResponse{}, err
	}

	s.bus.Publish(ctx, events.CompanyRegistered{
		BaseEvent:   events.NewBaseEvent(),
		CompanyID:   account.ID,
		CompanyName: account.Name,
	})
	s.log.AuthEvent("register", account.Name, true, "")

	return s.buildAuthResponse(ctx, account)
}

// Login authenticates a company by name and password.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	record, err := s.accounts.GetAuthByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		s.log.AuthEvent("login", req.Name, false, "unknown company")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(record.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Name, false, "bad password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	account, err := s.accounts.GetByID(ctx, record.ID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("login", account.Name, true, "")
	return s.buildAuthResponse(ctx, account)
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// pair is issued. Expired tokens are revoked and rejected.
func (s *Service) Refresh(ctx context.Context, rawToken string) (transport.AuthResponse, error) {
	hash := token.HashSHA256(rawToken)
	companyID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.AuthResponse{}, apperr.Unauthorized("refresh token expired")
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)

	account, err := s.accounts.GetByID(ctx, companyID)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	return s.buildAuthResponse(ctx, account)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(rawToken))
}

func (s *Service) buildAuthResponse(ctx context.Context, account companysvc.Account) (transport.AuthResponse, error) {
	accessToken, refreshToken, err := s.issueTokens(ctx, account)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	return transport.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Company: transport.CompanyResponse{
			ID:       account.ID.String(),
			Name:     account.Name,
			Whatsapp: account.Whatsapp,
			Email:    account.Email,
		},
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, account companysvc.Account) (string, string, error) {
	accessToken, err := s.signJWT(account, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return "", "", err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, account.ID, hash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(account companysvc.Account, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.ID.String(),
		"name": account.Name,
		"type": accessTokenType,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
