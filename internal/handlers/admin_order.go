package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/orders"
)

type updateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
	// Force skips the workflow check so an admin can correct a mistaken status.
	Force bool `json:"force"`
}

type addNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

type trackingRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
	Carrier        string `json:"carrier"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type refundRequest struct {
	Amount models.Amount `json:"amount"`
	Reason string        `json:"reason"`
}

type priorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

func ListOrders(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, log, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := orders.ListFilter{
			Search: strings.TrimSpace(c.Query("search")),
			Page:   page,
			Limit:  limit,
		}
		if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, "all") {
			status := models.ParseOrderStatus(raw)
			if !status.Valid() {
				respondWithError(c, log, http.StatusBadRequest, route, "invalid status")
				return
			}
			filter.Status = status
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, total, err := mgr.List(ctx, filter)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": list,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages(total, limit),
			},
		})
	}
}

func OrderBoard(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/board"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		board, err := mgr.Board(ctx)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, board)
	}
}

func OrderStats(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/stats"
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

// GetAdminOrder returns the order with the transitions the workflow allows
// from its current status.
func GetAdminOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/:ref"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.FindByRef(ctx, c.Param("ref"))
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":              order,
			"allowedTransitions": orders.AllowedTransitions(order.Status),
		})
	}
}

func UpdateOrderStatus(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:ref/status"
		defer handlePanic(c, log, route)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		status := models.ParseOrderStatus(req.Status)
		update := mgr.ChangeStatus
		if req.Force {
			update = mgr.UpdateStatus
		}

		order, err := update(ctx, c.Param("ref"), status, req.Message)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func AddOrderNote(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders/:ref/notes"
		defer handlePanic(c, log, route)

		var req addNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.AddNote(ctx, c.Param("ref"), req.Note)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func AssignOrderTracking(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:ref/tracking"
		defer handlePanic(c, log, route)

		var req trackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.AssignTracking(ctx, c.Param("ref"), req.TrackingNumber, req.Carrier)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CancelOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders/:ref/cancel"
		defer handlePanic(c, log, route)

		var req cancelRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, log, route, err)
				return
			}
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.Cancel(ctx, c.Param("ref"), req.Reason)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func RefundOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders/:ref/refund"
		defer handlePanic(c, log, route)

		var req refundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.MarkRefunded(ctx, c.Param("ref"), req.Amount, req.Reason)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func SetOrderPriority(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:ref/priority"
		defer handlePanic(c, log, route)

		var req priorityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.SetPriority(ctx, c.Param("ref"), models.ParsePriority(req.Priority))
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:ref"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := mgr.Delete(ctx, c.Param("ref")); err != nil {
			respondServiceError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
