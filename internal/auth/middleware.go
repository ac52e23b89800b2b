package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/withyou-admin/pkg/util"
)

const schoolIDKey = "auth_school_id"

// Authorizer resolves a bearer token to the school it is bound to.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (string, error)
}

// Middleware validates bearer tokens and loads the session's school id.
// Denied requests short-circuit here, before any repository work.
type Middleware struct {
	sessions Authorizer
}

// NewMiddleware constructs middleware.
func NewMiddleware(sessions Authorizer) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c)
	if !ok {
		return apperrors.NewSessionExpired()
	}

	schoolID, err := m.sessions.Authorize(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(schoolIDKey, schoolID)
	return c.Next()
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// SchoolIDFromContext retrieves the authenticated school id.
func SchoolIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(schoolIDKey)
	if val == nil {
		return "", false
	}
	schoolID, ok := val.(string)
	return schoolID, ok
}
