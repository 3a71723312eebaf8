// Package middleware provides authentication and authorization for the
// fiber routes.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cultivate/internal/config"
	"cultivate/internal/models"
	"cultivate/internal/services/profile"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Locals keys set by AuthMiddleware.Handler.
const (
	LocalClaims  = "claims"
	LocalProfile = "profile"
	LocalActor   = "actor"
)

var ErrNoVerificationKey = errors.New("auth: neither JWT public key nor secret configured")

type ProfileLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error)
}

// AuthMiddleware verifies identity-provider session tokens and resolves the
// caller's profile.
type AuthMiddleware struct {
	keyFunc  jwt.Keyfunc
	methods  []string
	issuer   string
	profiles ProfileLookup
	log      *logrus.Logger
}

func NewAuthMiddleware(cfg config.Auth, profiles ProfileLookup, log *logrus.Logger) (*AuthMiddleware, error) {
	m := &AuthMiddleware{issuer: cfg.Issuer, profiles: profiles, log: log}

	switch {
	case cfg.PublicKeyPEM != "":
		pem := strings.ReplaceAll(cfg.PublicKeyPEM, `\n`, "\n")
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("auth: parse public key: %w", err)
		}
		m.methods = []string{jwt.SigningMethodRS256.Alg()}
		m.keyFunc = func(*jwt.Token) (interface{}, error) { return key, nil }
	case cfg.JWTSecret != "":
		secret := []byte(cfg.JWTSecret)
		m.methods = []string{jwt.SigningMethodHS256.Alg()}
		m.keyFunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
	default:
		return nil, ErrNoVerificationKey
	}
	return m, nil
}

// Handler validates the bearer token. A caller without a profile yet is let
// through as a public actor so it can create one.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	opts := []jwt.ParserOption{jwt.WithValidMethods(m.methods), jwt.WithExpirationRequired()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &models.IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc, opts...)
	if err != nil || !token.Valid {
		m.log.WithError(err).Debug("token rejected")
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if claims.Subject == "" {
		return response.Error(c, fiber.StatusUnauthorized, "invalid claims")
	}

	actor := models.Actor{ExternalID: claims.Subject, Role: models.RolePublic}
	p, err := m.profiles.GetByExternalID(c.UserContext(), claims.Subject)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
	case err != nil:
		m.log.WithError(err).WithField("subject", claims.Subject).Error("failed to load profile")
		return response.ServerError(c, "Failed to load profile")
	default:
		actor = models.NewActor(p)
		c.Locals(LocalProfile, p)
	}

	c.Locals(LocalClaims, claims)
	c.Locals(LocalActor, actor)
	return c.Next()
}

// RequireProfile rejects callers that have not created a profile yet.
func RequireProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ProfileFrom(c) == nil {
			return response.Error(c, fiber.StatusForbidden, "Profile required")
		}
		return c.Next()
	}
}

// RequireRole allows only the listed roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(LocalActor).(models.Actor)
		if !ok {
			return response.Unauthorized(c)
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return response.Forbidden(c)
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(LocalActor).(models.Actor)
		if !ok {
			return response.Unauthorized(c)
		}
		if actor.IsAdmin() || actor.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c)
	}
}

func ActorFrom(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(LocalActor).(models.Actor)
	return actor
}

func ProfileFrom(c *fiber.Ctx) *models.UserProfile {
	p, _ := c.Locals(LocalProfile).(*models.UserProfile)
	return p
}

func ClaimsFrom(c *fiber.Ctx) *models.IdentityClaims {
	claims, _ := c.Locals(LocalClaims).(*models.IdentityClaims)
	return claims
}
