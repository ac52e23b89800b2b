package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/withyou-admin/internal/auth"
	"github.com/spec-kit/withyou-admin/internal/config"
	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/events"
	"github.com/spec-kit/withyou-admin/pkg/util"
)

// SessionService gates all dashboard access: it verifies the school
// credential, mints and resolves opaque session tokens, and records login
// failures for rate limiting. Every aggregation or search call goes through
// Authorize first, so nothing is fetched on behalf of an anonymous caller.
type SessionService struct {
	verifier   *auth.Verifier
	record     auth.DigestRecord
	schoolID   string
	registry   *auth.SessionRegistry
	limiter    *auth.LoginLimiter
	ttl        time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	Registry   *auth.SessionRegistry
	Limiter    *auth.LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSessionService builds the service from the configured credential material.
func NewSessionService(cfg config.AuthConfig, deps SessionDependencies) *SessionService {
	return &SessionService{
		verifier: auth.NewVerifier(cfg.HMACKey),
		record: auth.DigestRecord{
			Scheme: cfg.CredentialScheme,
			Digest: cfg.CredentialDigest,
			Salt:   cfg.CredentialSalt,
		},
		schoolID:   cfg.SchoolID,
		registry:   deps.Registry,
		limiter:    deps.Limiter,
		ttl:        cfg.SessionTTL(),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Login verifies the submitted secret and mints a session. Every failure
// path returns the same generic error so callers cannot tell an unknown
// school from a wrong secret, and the submitted secret is never logged.
func (s *SessionService) Login(ctx context.Context, schoolID, secret string) (*domain.Session, error) {
	if !s.limiter.Allow(ctx, schoolID) {
		s.recordFailure(ctx, schoolID, true)
		return nil, util.NewAuthenticationFailed()
	}

	schoolMatch := subtle.ConstantTimeCompare([]byte(schoolID), []byte(s.schoolID)) == 1
	if !s.verifier.Verify(secret, s.record) || !schoolMatch {
		s.recordFailure(ctx, schoolID, false)
		return nil, util.NewAuthenticationFailed()
	}

	token, err := auth.NewToken()
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	issuedAt := s.now()
	session := domain.Session{
		Token:     token,
		SchoolID:  s.schoolID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}
	s.registry.Put(session)
	s.limiter.Reset(ctx, schoolID)

	s.publish(ctx, events.EventSessionIssued, events.SessionIssuedPayload{ExpiresAt: session.ExpiresAt})
	return &session, nil
}

// Authorize resolves a bearer token to its school id. Unknown, expired, and
// logged-out tokens are all denied the same way.
func (s *SessionService) Authorize(ctx context.Context, token string) (string, error) {
	session, ok := s.registry.Get(token)
	if !ok {
		s.publish(ctx, events.EventSessionExpired, nil)
		return "", util.NewSessionExpired()
	}
	return session.SchoolID, nil
}

// Logout destroys the session; subsequent authorize calls are denied.
func (s *SessionService) Logout(ctx context.Context, token string) {
	if s.registry.Delete(token) {
		s.publish(ctx, events.EventSessionLoggedOut, nil)
	}
}

func (s *SessionService) recordFailure(ctx context.Context, schoolID string, rateLimited bool) {
	if !rateLimited {
		s.limiter.RecordFailure(ctx, schoolID)
	}
	// never log the submitted secret
	s.logger.Warn("login failed",
		zap.String("school_id", schoolID),
		zap.Bool("rate_limited", rateLimited),
	)
	s.publish(ctx, events.EventLoginFailed, events.LoginFailedPayload{RateLimited: rateLimited})
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SchoolID:  s.schoolID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
