package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/domain"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// SessionSource exposes the active session.
type SessionSource interface {
	CurrentSession() domain.AuthState
}

// AuthMiddleware validates bearer tokens against the active session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionSource
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. The principal stored
// on the request is the session snapshot, not the current account record.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session := m.sessions.CurrentSession()
	if !session.IsLoggedIn || session.Username != claims.Subject || session.SessionID != claims.SessionID {
		return apperrors.NewUnauthorized("session ended")
	}

	c.Locals(principalKey, session)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated session.
func PrincipalFromContext(c *fiber.Ctx) (domain.AuthState, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return domain.AuthState{}, false
	}
	principal, ok := val.(domain.AuthState)
	return principal, ok
}
