package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

const ContextClaims = "claims"

// TokenValidator verifies bearer tokens and classifies admins.
type TokenValidator interface {
	ValidateToken(token string) (*model.TokenClaims, error)
	IsAdmin(claims *model.TokenClaims) bool
}

// Auth requires a valid bearer token and stashes its claims in the
// context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Abort()
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			return
		}

		claims, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Abort()
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// AdminOnly gates a route on the admin allow-list. Must run after Auth.
func AdminOnly(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !validator.IsAdmin(claims) {
			c.Abort()
			httputil.RespondWithError(c, errors.Forbidden("admin access required", nil))
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the authenticated caller's claims, or nil.
func ClaimsFrom(c *gin.Context) *model.TokenClaims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*model.TokenClaims)
	return claims
}
