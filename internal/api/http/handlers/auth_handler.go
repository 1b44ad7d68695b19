package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/api/dto"
	"github.com/spec-kit/swift-ticket/internal/service"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

// AuthHandler serves login, logout and the current profile.
type AuthHandler struct {
	service   *service.AuthService
	validator *Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, validator *Validator) *AuthHandler {
	return &AuthHandler{service: authService, validator: validator}
}

// Login POST /auth/login. A successful login replaces any active session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return err
	}
	session, ok, err := h.service.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	token, expiresAt, err := h.service.IssueToken(session)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   sessionResponse(h.service.ProfileOf(session)),
	}})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(h.service.ProfileOf(session))})
}
