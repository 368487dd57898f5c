package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
)

func ListAdminProducts(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		products, err := mgr.List(ctx)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// CreateProduct accepts price and stock as numbers or numeric strings, the
// way the admin form posts them.
func CreateProduct(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, log, route)

		var input catalog.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		product, err := mgr.Add(ctx, input)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, log, route)

		id, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		var patch catalog.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		product, err := mgr.Update(ctx, id, patch)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, log, route)

		id, ok := parseID(c.Param("id"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := mgr.Remove(ctx, id); err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

func ProductStats(mgr *catalog.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products/stats"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		stats, err := mgr.Stats(ctx)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
