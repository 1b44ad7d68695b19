package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/domain"
	apperrors "github.com/spec-kit/swift-ticket/pkg/util/errorutil"
)

// RequireRole ensures the session has one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("login required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff ensures the session belongs to an EXPERT or ADMIN.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleExpert, domain.RoleAdmin)
}

// RequirePermission ensures the session carries the flag selected by has.
func RequirePermission(name string, has func(domain.Permissions) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("login required")
		}
		if !has(principal.Permissions) {
			return apperrors.NewForbidden("missing permission: " + name)
		}
		return c.Next()
	}
}

// Permission selectors for RequirePermission.
var (
	CanReply     = func(p domain.Permissions) bool { return p.CanReply }
	CanCreate    = func(p domain.Permissions) bool { return p.CanCreate }
	IsAdminPanel = func(p domain.Permissions) bool { return p.IsAdminPanel }
)
