package middleware

import (
	"context"
	"encoding/base64"
	"strings"

	"budget-server/internal/dto"
	"budget-server/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PrincipalKey is the fiber.Ctx locals key holding the *service.Principal.
const PrincipalKey = "principal"

// Authenticator resolves credentials to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*service.Principal, error)
	ValidateToken(token string) (*service.Principal, error)
}

// AuthMiddleware accepts HTTP Basic credentials or a Bearer session token and
// rejects everything else with 401.
func AuthMiddleware(authenticator Authenticator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			logger.Debug("Missing authorization header", zap.String("path", c.Path()))
			return unauthorized(c)
		}

		scheme, credentials, _ := strings.Cut(header, " ")
		var (
			principal *service.Principal
			err       error
		)
		switch strings.ToLower(scheme) {
		case "basic":
			username, password, ok := decodeBasic(credentials)
			if !ok {
				logger.Warn("Malformed basic credentials")
				return unauthorized(c)
			}
			principal, err = authenticator.Authenticate(c.Context(), username, password)
		case "bearer":
			principal, err = authenticator.ValidateToken(strings.TrimSpace(credentials))
		default:
			logger.Warn("Unsupported authorization scheme", zap.String("scheme", scheme))
			return unauthorized(c)
		}
		if err != nil {
			logger.Warn("Authentication failed", zap.String("scheme", scheme), zap.Error(err))
			return unauthorized(c)
		}

		c.Locals(PrincipalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated caller or nil.
func Principal(c *fiber.Ctx) *service.Principal {
	p, _ := c.Locals(PrincipalKey).(*service.Principal)
	return p
}

func decodeBasic(encoded string) (string, string, bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok || username == "" {
		return "", "", false
	}
	return username, password, true
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="budget"`)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Unauthorized"})
}
