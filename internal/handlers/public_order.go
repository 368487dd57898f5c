package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orders"
)

type createOrderItemRequest struct {
	ID       int64         `json:"id" binding:"required"`
	Title    string        `json:"title" binding:"required"`
	Price    models.Amount `json:"price"`
	Quantity int           `json:"quantity" binding:"required,min=1"`
	Image    string        `json:"image"`
}

type createOrderCustomerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
}

type createOrderAddressRequest struct {
	Street  string `json:"street"`
	Address string `json:"address" binding:"required_without=Street"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type createOrderRequest struct {
	OrderID         string                     `json:"orderId"`
	Customer        createOrderCustomerRequest `json:"customer" binding:"required"`
	ShippingAddress createOrderAddressRequest  `json:"shippingAddress" binding:"required"`
	Items           []createOrderItemRequest   `json:"items" binding:"required,min=1,dive"`
	Total           *models.Amount             `json:"total"`
	Date            string                     `json:"date"`
	Time            string                     `json:"time"`
}

func buildOrderFromRequest(req createOrderRequest) models.Order {
	items := make([]models.OrderItem, 0, len(req.Items))
	computed := decimal.Zero
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ID:       item.ID,
			Title:    strings.TrimSpace(item.Title),
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		})
		computed = computed.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	total := models.Amount{Decimal: computed}
	if req.Total != nil {
		total = *req.Total
	}

	return models.Order{
		OrderID: strings.TrimSpace(req.OrderID),
		Customer: models.OrderCustomer{
			FirstName: strings.TrimSpace(req.Customer.FirstName),
			LastName:  strings.TrimSpace(req.Customer.LastName),
			Email:     strings.TrimSpace(req.Customer.Email),
			Phone:     strings.TrimSpace(req.Customer.Phone),
		},
		ShippingAddress: models.ShippingAddress{
			Street:  strings.TrimSpace(req.ShippingAddress.Street),
			Address: strings.TrimSpace(req.ShippingAddress.Address),
			City:    strings.TrimSpace(req.ShippingAddress.City),
			State:   strings.TrimSpace(req.ShippingAddress.State),
			ZipCode: strings.TrimSpace(req.ShippingAddress.ZipCode),
			Country: strings.TrimSpace(req.ShippingAddress.Country),
		},
		Items: items,
		Total: total,
		Date:  req.Date,
		Time:  req.Time,
	}
}

// CreateOrder is the checkout endpoint. Guests may order; a signed-in
// shopper's account email replaces the form email so the order shows up in
// their history.
func CreateOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, log, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, log, route, err)
			return
		}

		order := buildOrderFromRequest(req)
		if user, ok := middleware.CurrentUser(c); ok {
			order.Customer.Email = user.Email
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		created, err := mgr.Create(ctx, order)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// orderReceipt is what a caller who does not own the order may see: enough
// for a confirmation or tracking page, without contact or address details.
type orderReceipt struct {
	OrderID         string                  `json:"orderId"`
	Status          models.OrderStatus      `json:"status"`
	Items           []models.OrderItem      `json:"items"`
	Total           models.Amount           `json:"total"`
	Date            string                  `json:"date,omitempty"`
	Time            string                  `json:"time,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	TrackingUpdates []models.TrackingUpdate `json:"trackingUpdates"`
	TrackingNumber  string                  `json:"trackingNumber,omitempty"`
	Carrier         string                  `json:"carrier,omitempty"`
}

func receiptOf(o models.Order) orderReceipt {
	return orderReceipt{
		OrderID:         o.OrderID,
		Status:          o.Status,
		Items:           o.Items,
		Total:           o.Total,
		Date:            o.Date,
		Time:            o.Time,
		CreatedAt:       o.CreatedAt,
		TrackingUpdates: o.TrackingUpdates,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
	}
}

func ownsOrder(c *gin.Context, o models.Order) bool {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return false
	}
	return user.IsAdmin() || strings.EqualFold(strings.TrimSpace(o.Customer.Email), user.Email)
}

// GetOrder looks an order up by either of its references, for the
// confirmation and tracking pages. Only the owner or an admin gets the full
// order; anyone else gets the receipt view.
func GetOrder(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:ref"
		defer handlePanic(c, log, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := mgr.FindByRef(ctx, c.Param("ref"))
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		if !ownsOrder(c, order) {
			c.JSON(http.StatusOK, receiptOf(order))
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func GetUserOrders(mgr *orders.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders"
		defer handlePanic(c, log, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := mgr.FindByUser(ctx, user.Email)
		if err != nil {
			respondServiceError(c, log, route, err)
			return
		}

		log.Info("[ORDER] user orders listed", zap.String("email", user.Email), zap.Int("count", len(list)))
		c.JSON(http.StatusOK, list)
	}
}
