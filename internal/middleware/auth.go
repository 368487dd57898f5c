package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/identity"
	"storefront/internal/models"
)

const ctxUser = "user"

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value.
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CurrentUser returns the profile stored by UserAuth or OptionalUser.
func CurrentUser(c *gin.Context) (identity.Profile, bool) {
	value, ok := c.Get(ctxUser)
	if !ok {
		return identity.Profile{}, false
	}
	profile, ok := value.(identity.Profile)
	return profile, ok
}

// AuthGuard requires a valid access token and, when roles are given, one of
// those roles.
func AuthGuard(provider identity.Provider, log *zap.Logger, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if strings.TrimSpace(raw) == "" {
			log.Warn("[AUTH] missing token", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token, ok := ExtractBearerToken(raw)
		if !ok {
			log.Warn("[AUTH] invalid token format", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		profile, err := provider.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.Warn("[AUTH] token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 && !hasRole(profile.Role, allowedRoles) {
			log.Warn("[AUTH] role not allowed",
				zap.String("email", profile.Email),
				zap.String("role", profile.Role),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(ctxUser, profile)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func UserAuth(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return AuthGuard(provider, log)
}

func AdminAuth(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return AuthGuard(provider, log, models.RoleAdmin)
}

// OptionalUser attaches the user when a valid token is sent and lets the
// request through either way. Checkout uses it so guests can order.
func OptionalUser(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if ok {
			profile, err := provider.CurrentUser(c.Request.Context(), token)
			if err == nil {
				c.Set(ctxUser, profile)
			} else {
				log.Debug("[AUTH] ignoring invalid optional token", zap.Error(err))
			}
		}
		c.Next()
	}
}
