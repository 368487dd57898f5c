package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/identity"
	"storefront/internal/orders"
	"storefront/internal/reviews"
)

const (
	storeTimeout  = 5 * time.Second
	sourceTimeout = 15 * time.Second
)

func storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

func handlePanic(c *gin.Context, log *zap.Logger, route string) {
	if r := recover(); r != nil {
		log.Error("panic recovered", zap.String("route", route), zap.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, log *zap.Logger, status int, route string, message string) {
	log.Warn("returning error",
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("message", message),
	)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, log *zap.Logger, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required", "required_without":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Warn("validation failed", zap.String("route", route), zap.Strings("details", details))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}
	respondWithError(c, log, http.StatusBadRequest, route, "invalid body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondServiceError maps a manager error to its HTTP status. Unrecognized
// errors are treated as storage failures.
func respondServiceError(c *gin.Context, log *zap.Logger, route string, err error) {
	status, message := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("route", route), zap.Error(err))
	}
	respondWithError(c, log, status, route, message)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, reviews.ErrReviewNotFound):
		return http.StatusNotFound, "review not found"
	case errors.Is(err, identity.ErrUserNotFound):
		return http.StatusNotFound, "user not found"

	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrDuplicateOrder),
		errors.Is(err, reviews.ErrAlreadyReviewed),
		errors.Is(err, identity.ErrEmailTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidPriority),
		errors.Is(err, orders.ErrEmptyNote),
		errors.Is(err, orders.ErrEmptyTrackingNumber),
		errors.Is(err, reviews.ErrInvalidRating),
		errors.Is(err, identity.ErrMissingFields):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, reviews.ErrNotAuthor):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, identity.ErrProviderUnavailable):
		return http.StatusNotImplemented, err.Error()

	case catalog.IsSourceError(err):
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, "storage error"
}
