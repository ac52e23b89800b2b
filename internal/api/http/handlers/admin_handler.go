package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/withyou-admin/internal/api/dto"
	"github.com/spec-kit/withyou-admin/internal/auth"
	"github.com/spec-kit/withyou-admin/internal/service"
	apperrors "github.com/spec-kit/withyou-admin/pkg/util"
)

// AdminHandler manages staff session endpoints.
type AdminHandler struct {
	sessions *service.SessionService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(sessions *service.SessionService) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

// Login POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.SchoolID == "" || req.Secret == "" {
		return apperrors.NewValidationError("school_id and secret required")
	}

	session, err := h.sessions.Login(c.UserContext(), req.SchoolID, req.Secret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}})
}

// Logout POST /admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewSessionExpired()
	}
	h.sessions.Logout(c.UserContext(), token)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}
