package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

const (
	ctxUserID = "auth.user_id"
	ctxRole   = "auth.role"

	RoleAdmin = "admin"
)

// Claims is the bearer token payload; the subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the caller identity. Without a secret (dev) it trusts the
// X-User-ID and X-User-Role headers instead of verifying a token.
type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), secret: []byte(secret)}
}

// Identify attaches the identity when present. A malformed or invalid token is rejected.
func (am *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(am.secret) == 0 {
			if uid := strings.TrimSpace(c.GetHeader("X-User-ID")); uid != "" {
				c.Set(ctxUserID, uid)
				c.Set(ctxRole, strings.TrimSpace(c.GetHeader("X-User-Role")))
			}
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := am.parse(token)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			respondError(c, am.log, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized))
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireUser rejects anonymous callers.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID(c) == "" {
			respondError(c, am.log, domain.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID(c) == "" {
			respondError(c, am.log, domain.ErrUnauthorized)
			return
		}
		if c.GetString(ctxRole) != RoleAdmin {
			respondError(c, am.log, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IssueToken signs an HS256 token; used by tests and local tooling.
func IssueToken(secret, userID, role string) (string, error) {
	claims := Claims{Role: role, RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
