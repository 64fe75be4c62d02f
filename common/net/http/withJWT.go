package http

import (
	"errors"
	"strings"
	"time"

	"github.com/fernbank/core/common/mmodel"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenContextValue is a wrapper type used to keep Context.Locals safe.
type TokenContextValue string

const authzContextKey TokenContextValue = "authzContext"

// SessionClaims is the self-issued session token's claim set (spec.md §4.2:
// "mint a session token, opaque to the core"). Unlike the teacher's
// Casdoor/JWK-verified OAuth2 token, this core is its own issuer and its own
// verifier — there is no external identity provider in this spec's scope.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username    string   `json:"username"`
	CustomerID  *string  `json:"customerId,omitempty"`
	Permissions []string `json:"permissions"`
}

// TokenIssuer mints and verifies HMAC-signed session tokens.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenIssuer builds a TokenIssuer from a signing secret and session
// token lifetime (bootstrap.Config, per SPEC_FULL.md §10.3).
func NewTokenIssuer(secret []byte, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, lifetime: lifetime}
}

// Issue mints a session token for authz, valid for the issuer's lifetime.
func (t *TokenIssuer) Issue(authz mmodel.AuthzContext) (string, time.Time, error) {
	expiresAt := time.Now().Add(t.lifetime)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authz.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username:    authz.Username,
		CustomerID:  authz.CustomerID,
		Permissions: authz.Permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a session token, returning its AuthzContext.
func (t *TokenIssuer) Verify(tokenString string) (mmodel.AuthzContext, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return t.secret, nil
	})
	if err != nil {
		return mmodel.AuthzContext{}, err
	}

	if !token.Valid {
		return mmodel.AuthzContext{}, errors.New("invalid token")
	}

	return mmodel.AuthzContext{
		UserID:      claims.Subject,
		Username:    claims.Username,
		CustomerID:  claims.CustomerID,
		Permissions: claims.Permissions,
	}, nil
}

func getTokenHeader(c *fiber.Ctx) string {
	splitToken := strings.Split(c.Get(fiber.HeaderAuthorization), "Bearer")
	if len(splitToken) == 2 {
		return strings.TrimSpace(splitToken[1])
	}

	return ""
}

// AuthzContextFromFiberCtx reads the AuthzContext stashed by Protect.
func AuthzContextFromFiberCtx(c *fiber.Ctx) (mmodel.AuthzContext, bool) {
	authz, ok := c.Locals(string(authzContextKey)).(mmodel.AuthzContext)
	return authz, ok
}

// JWTMiddleware protects endpoints with self-issued session tokens.
type JWTMiddleware struct {
	issuer *TokenIssuer
}

// NewJWTMiddleware builds a JWTMiddleware backed by issuer.
func NewJWTMiddleware(issuer *TokenIssuer) *JWTMiddleware {
	return &JWTMiddleware{issuer: issuer}
}

// Protect verifies the bearer session token and stashes the resulting
// AuthzContext on the fiber.Ctx for downstream handlers.
func (m *JWTMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := getTokenHeader(c)
		if len(tokenString) == 0 {
			return Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
		}

		authz, err := m.issuer.Verify(tokenString)
		if err != nil {
			return Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "invalid or expired token")
		}

		c.Locals(string(authzContextKey), authz)

		return c.Next()
	}
}

// WithPermission rejects requests whose AuthzContext lacks permission.
// Ownership-based gates (spec.md §4.2 rule b) are checked by the handler
// itself, since they depend on the specific resource being accessed.
func (m *JWTMiddleware) WithPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz, ok := AuthzContextFromFiberCtx(c)
		if !ok {
			return Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
		}

		if !authz.HasPermission(permission) {
			return Forbidden(c, "FORBIDDEN", "Forbidden", "insufficient privileges")
		}

		return c.Next()
	}
}
