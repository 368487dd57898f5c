package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
)

// GetStorefront lists external catalog products alongside admin-added ones.
// A failing external catalog is reported in sourceError rather than failing
// the page.
func GetStorefront(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, log, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), sourceTimeout)
		defer cancel()

		view, err := mgr.Storefront(ctx)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		if view.SourceError != "" {
			log.Warn("[PRODUCT] external catalog unavailable", zap.String("error", view.SourceError))
		}

		c.JSON(http.StatusOK, view)
	}
}

// GetProduct resolves an id against admin products first, then the external
// catalog.
func GetProduct(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, log, route)

		id, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), sourceTimeout)
		defer cancel()

		product, err := mgr.GetByID(ctx, id)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"source": "admin", "product": product})
			return
		}
		if !errors.Is(err, catalog.ErrProductNotFound) {
			respondServiceError(c, log, route, err)
			return
		}

		external, err := mgr.SourceProduct(ctx, id)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": "catalog", "product": external})
	}
}

func GetCategories(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, log, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), sourceTimeout)
		defer cancel()

		categories, err := mgr.Categories(ctx)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
