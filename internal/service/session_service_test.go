package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/withyou-admin/internal/auth"
	"github.com/spec-kit/withyou-admin/internal/config"
)

func newSessionFixture(t *testing.T, maxAttempts int) (*SessionService, *auth.SessionRegistry, func(time.Time)) {
	t.Helper()

	verifier := auth.NewVerifier("hmac-key")
	digest := auth.EncodeDigest(verifier.ComputeDigest("abc123", "s1"))
	cfg := config.AuthConfig{
		SchoolID:          "school-1",
		CredentialScheme:  auth.SchemeHMACSHA256,
		CredentialDigest:  digest,
		CredentialSalt:    "s1",
		HMACKey:           "hmac-key",
		SessionTTLMinutes: 30,
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	setNow := func(t time.Time) { now = t }

	registry := auth.NewSessionRegistry().WithClock(clock)
	limiter := auth.NewLoginLimiter(nil, maxAttempts, 5*time.Minute)
	service := NewSessionService(cfg, SessionDependencies{
		Registry: registry,
		Limiter:  limiter,
		Logger:   zap.NewNop(),
	}).WithClock(clock)

	return service, registry, setNow
}

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	service, _, setNow := newSessionFixture(t, 5)
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := service.Login(ctx, "school-1", "abc124"); err == nil {
		t.Fatal("wrong secret accepted")
	}
	if _, err := service.Login(ctx, "other-school", "abc123"); err == nil {
		t.Fatal("unknown school accepted")
	}

	session, err := service.Login(ctx, "school-1", "abc123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(session.Token) != auth.TokenLength {
		t.Fatalf("token length = %d, want %d", len(session.Token), auth.TokenLength)
	}
	if want := issued.Add(30 * time.Minute); !session.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", session.ExpiresAt, want)
	}

	schoolID, err := service.Authorize(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authorize within TTL: %v", err)
	}
	if schoolID != "school-1" {
		t.Fatalf("Authorize school = %q, want school-1", schoolID)
	}

	// one instant before expiry still authorized
	setNow(issued.Add(30*time.Minute - time.Second))
	if _, err := service.Authorize(ctx, session.Token); err != nil {
		t.Fatalf("Authorize before expiry: %v", err)
	}

	// at issued_at+TTL the token is denied
	setNow(issued.Add(30 * time.Minute))
	if _, err := service.Authorize(ctx, session.Token); err == nil {
		t.Fatal("Authorize accepted expired token")
	}
}

func TestSessionLogout(t *testing.T) {
	ctx := context.Background()
	service, registry, _ := newSessionFixture(t, 5)

	session, err := service.Login(ctx, "school-1", "abc123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	service.Logout(ctx, session.Token)
	if _, err := service.Authorize(ctx, session.Token); err == nil {
		t.Fatal("Authorize accepted logged-out token")
	}
	if registry.Len() != 0 {
		t.Fatalf("registry holds %d sessions after logout, want 0", registry.Len())
	}
}

func TestSessionAuthorizeUnknownToken(t *testing.T) {
	service, _, _ := newSessionFixture(t, 5)
	if _, err := service.Authorize(context.Background(), "never-issued"); err == nil {
		t.Fatal("Authorize accepted unknown token")
	}
}

func TestSessionLoginRateLimited(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newSessionFixture(t, 2)

	for i := 0; i < 2; i++ {
		if _, err := service.Login(ctx, "school-1", "wrong"); err == nil {
			t.Fatal("wrong secret accepted")
		}
	}

	// limit reached: even the correct secret is refused with the same error
	if _, err := service.Login(ctx, "school-1", "abc123"); err == nil {
		t.Fatal("rate-limited login succeeded")
	}
}

func TestSessionFailureMessagesIndistinguishable(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newSessionFixture(t, 5)

	_, errSecret := service.Login(ctx, "school-1", "wrong")
	_, errSchool := service.Login(ctx, "no-such-school", "abc123")
	if errSecret == nil || errSchool == nil {
		t.Fatal("expected both logins to fail")
	}
	if errSecret.Error() != errSchool.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errSecret, errSchool)
	}
}
