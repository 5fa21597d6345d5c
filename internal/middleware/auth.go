package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/utils/respond"

	errs "github.com/oggyb/linkup/internal/errors"
)

const (
	ctxKeyClaims = "authClaims"
	ctxKeyUserID = "authUserID"
)

// Claims carried by the identity provider's access token. Subject is the
// external uid; Email rides along for first-login provisioning.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate verifies the Bearer token (HS256) and stores the claims in
// the request context. Requests without a valid token are rejected 401.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, errs.Unauthorized("missing bearer token"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			respond.Error(c, errs.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// ResolveUser maps the token subject to an internal user id when the
// subject has been provisioned. It never rejects: operations that require
// an internal id check UserID(c) themselves (the sync endpoint legitimately
// runs before provisioning).
func ResolveUser(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := TokenClaims(c)
		if claims != nil {
			user, err := users.GetByExternalUID(c.Request.Context(), claims.Subject)
			if err == nil && user != nil {
				c.Set(ctxKeyUserID, user.ID)
			}
		}
		c.Next()
	}
}

// TokenClaims returns the verified claims, or nil outside Authenticate.
func TokenClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ctxKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// UserID returns the resolved internal user id, or 0 when the token
// subject has no user row yet.
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// RequireUserID returns the resolved id or an Unauthorized error for
// protected operations.
func RequireUserID(c *gin.Context) (uint64, error) {
	id := UserID(c)
	if id == 0 {
		return 0, errs.Unauthorized("user not found for token subject")
	}
	return id, nil
}
