package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/reviews"
)

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1"`
	Title   string `json:"title"`
	Comment string `json:"comment" binding:"required"`
}

// GetProductReviews returns the reviews newest first together with the
// average rating and the per-star distribution.
func GetProductReviews(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id/reviews"
		defer handlePanic(c, log, route)

		productID, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		summary, err := agg.Summary(ctx, productID)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func CreateReview(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:id/reviews"
		defer handlePanic(c, log, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		productID, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		review, err := agg.Add(ctx, productID, reviews.Input{
			UserName:  user.Name,
			UserEmail: user.Email,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
		})
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// UpdateReview lets the author edit their review. Admins may edit any review.
func UpdateReview(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reviews/:id"
		defer handlePanic(c, log, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		reviewID, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		var edit reviews.Edit
		if err := c.ShouldBindJSON(&edit); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		author := user.Email
		if user.IsAdmin() {
			author = ""
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		review, err := agg.Update(ctx, reviewID, author, edit)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func MarkReviewHelpful(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return voteHandler("POST /reviews/:id/helpful", agg.MarkHelpful, log)
}

func MarkReviewUnhelpful(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return voteHandler("POST /reviews/:id/unhelpful", agg.MarkUnhelpful, log)
}

func voteHandler(route string, vote func(ctx context.Context, id int64) (models.Review, error), log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, log, route)

		reviewID, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		review, err := vote(ctx, reviewID)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func DeleteReview(agg *reviews.Aggregator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/reviews/:id"
		defer handlePanic(c, log, route)

		reviewID, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := agg.Delete(ctx, reviewID); err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
	}
}
