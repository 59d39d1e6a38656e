package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

// AuthService logs admins in against the hosted auth service and checks
// their session cookies on every proxied call. It keeps no session state.
type AuthService struct {
	provider domain.AuthProvider
	codec    domain.SessionCodec
	journal  domain.JournalRepository
}

func NewAuthService(provider domain.AuthProvider, codec domain.SessionCodec, journal domain.JournalRepository) *AuthService {
	return &AuthService{provider: provider, codec: codec, journal: journal}
}

// ParseCredentials validates a raw JSON login body.
func ParseCredentials(payload []byte) (domain.Credentials, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return domain.Credentials{}, domain.NewAuthorizationError("Invalid request body")
	}

	email, err := stringField(raw, "email", "Email")
	if err != nil {
		return domain.Credentials{}, err
	}
	password, err := stringField(raw, "password", "Password")
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Email: email, Password: password}, nil
}

func stringField(raw map[string]any, key, label string) (string, error) {
	v, ok := raw[key]
	if !ok || isFalsy(v) {
		return "", domain.NewAuthorizationError(label + " is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.NewAuthorizationError(label + " must be a string")
	}
	return s, nil
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

// LoginWithSession signs in upstream and returns the session together with
// its signed cookie value.
func (s *AuthService) LoginWithSession(ctx context.Context, payload []byte) (domain.Session, string, error) {
	creds, err := ParseCredentials(payload)
	if err != nil {
		return domain.Session{}, "", err
	}

	upstream, err := s.provider.SignInWithPassword(ctx, creds)
	if err != nil {
		s.audit(ctx, creds.Email, "auth.login.failed", err.Error())
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			log.Printf("login %s: %v", creds.Email, err)
			return domain.Session{}, "", domain.NewAuthorizationError("network error")
		}
		reason := strings.TrimSpace(err.Error())
		if reason == "" {
			reason = "No user session found"
		}
		return domain.Session{}, "", domain.NewAuthorizationError(reason)
	}
	if upstream.User.Email == "" {
		upstream.User.Email = creds.Email
	}

	session := domain.Session{
		Principal: upstream.User,
		Strategy:  domain.StrategyAdmin,
		Upstream:  upstream,
	}
	token, err := s.codec.Encode(session)
	if err != nil {
		return domain.Session{}, "", err
	}

	s.audit(ctx, session.Principal.Email, "auth.login", "session login")
	return session, token, nil
}

// AuthenticateSession resolves a cookie value to a live session. Every
// failure collapses to domain.ErrUnauthenticated.
func (s *AuthService) AuthenticateSession(ctx context.Context, cookieValue string) (domain.Session, error) {
	if strings.TrimSpace(cookieValue) == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}

	session, err := s.codec.Decode(cookieValue)
	if err != nil {
		log.Printf("session cookie rejected: %v", err)
		return domain.Session{}, domain.ErrUnauthenticated
	}
	if session.Strategy != domain.StrategyAdmin || session.Upstream.AccessToken == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}

	principal, err := s.provider.GetUser(ctx, session.Upstream.AccessToken)
	if err != nil {
		log.Printf("session for %s rejected upstream: %v", session.Principal.Email, err)
		return domain.Session{}, domain.ErrUnauthenticated
	}
	if principal.ID != "" && session.Principal.ID != "" && principal.ID != session.Principal.ID {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	if principal.Email != "" {
		session.Principal.Email = principal.Email
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, session domain.Session) {
	s.audit(ctx, session.Principal.Email, "auth.logout", "")
}

func (s *AuthService) audit(ctx context.Context, actor, action, metadata string) {
	if s.journal == nil {
		return
	}
	_ = s.journal.CreateAuditEntry(ctx, domain.AuditEntry{ActorEmail: actor, Action: action, Target: "session", Metadata: metadata})
}
