package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/identity"
	"storefront/internal/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, log, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		session, err := provider.Register(ctx, identity.RegisterInput{
			Name:     strings.TrimSpace(req.Name),
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		log.Info("[AUTH] user registered", zap.String("userId", session.User.ID))
		c.JSON(http.StatusCreated, session)
	}
}

func Login(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, log, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		session, err := provider.Login(ctx, req.Email, req.Password)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// LoginWithProvider starts a third-party sign-in such as "google".
func LoginWithProvider(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/provider/:name"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		session, err := provider.LoginWithProvider(ctx, c.Param("name"))
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// Logout revokes the presented access token.
func Logout(provider identity.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, log, route)

		token, ok := middleware.ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := provider.Logout(ctx, token); err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func GetMe(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, log, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
