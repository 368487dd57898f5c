package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/identity"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/reviews"
)

type Deps struct {
	Orders   *orders.Manager
	Catalog  *catalog.Manager
	Reviews  *reviews.Aggregator
	Identity identity.Provider
	Log      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	log := d.Log
	userAuth := middleware.UserAuth(d.Identity, log)

	r.GET("/", Home())

	r.POST("/auth/register", Register(d.Identity, log))
	r.POST("/auth/login", Login(d.Identity, log))
	r.POST("/auth/logout", Logout(d.Identity, log))
	r.GET("/auth/me", userAuth, GetMe(log))
	r.POST("/auth/provider/:name", LoginWithProvider(d.Identity, log))

	r.GET("/products", GetStorefront(d.Catalog, log))
	r.GET("/products/:id", GetProduct(d.Catalog, log))
	r.GET("/categories", GetCategories(d.Catalog, log))
	r.GET("/products/:id/reviews", GetProductReviews(d.Reviews, log))
	r.POST("/products/:id/reviews", userAuth, CreateReview(d.Reviews, log))
	r.PUT("/reviews/:id", userAuth, UpdateReview(d.Reviews, log))
	r.POST("/reviews/:id/helpful", MarkReviewHelpful(d.Reviews, log))
	r.POST("/reviews/:id/unhelpful", MarkReviewUnhelpful(d.Reviews, log))

	optionalUser := middleware.OptionalUser(d.Identity, log)
	r.POST("/orders", optionalUser, CreateOrder(d.Orders, log))
	r.GET("/orders/:ref", optionalUser, GetOrder(d.Orders, log))

	user := r.Group("/user")
	user.Use(userAuth)
	{
		user.GET("/orders", GetUserOrders(d.Orders, log))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(d.Identity, log))
	{
		admin.GET("/orders", ListOrders(d.Orders, log))
		admin.GET("/orders/board", OrderBoard(d.Orders, log))
		admin.GET("/orders/stats", OrderStats(d.Orders, log))
		admin.GET("/orders/:ref", GetAdminOrder(d.Orders, log))
		admin.PUT("/orders/:ref/status", UpdateOrderStatus(d.Orders, log))
		admin.POST("/orders/:ref/notes", AddOrderNote(d.Orders, log))
		admin.PUT("/orders/:ref/tracking", AssignOrderTracking(d.Orders, log))
		admin.POST("/orders/:ref/cancel", CancelOrder(d.Orders, log))
		admin.POST("/orders/:ref/refund", RefundOrder(d.Orders, log))
		admin.PUT("/orders/:ref/priority", SetOrderPriority(d.Orders, log))
		admin.DELETE("/orders/:ref", DeleteOrder(d.Orders, log))

		admin.GET("/products", ListAdminProducts(d.Catalog, log))
		admin.POST("/products", CreateProduct(d.Catalog, log))
		admin.GET("/products/stats", ProductStats(d.Catalog, log))
		admin.PUT("/products/:id", UpdateProduct(d.Catalog, log))
		admin.DELETE("/products/:id", DeleteProduct(d.Catalog, log))

		admin.DELETE("/reviews/:id", DeleteReview(d.Reviews, log))
	}
}
