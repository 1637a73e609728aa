package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/services"
)

const principalKey = "principal"

// TokenAuthenticator resolves a bearer token to the caller.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

// Authenticate attaches the caller to the request when a bearer token is
// sent. Requests without a token continue anonymously.
func Authenticate(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return services.ErrUnauthorized
		}

		principal, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PrincipalFrom(c) == nil {
			return services.ErrUnauthorized
		}
		return c.Next()
	}
}

func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			return services.ErrUnauthorized
		}
		if principal.Role != role {
			return services.ErrForbidden
		}
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated caller or nil.
func PrincipalFrom(c *fiber.Ctx) *models.Principal {
	principal, _ := c.Locals(principalKey).(*models.Principal)
	return principal
}
