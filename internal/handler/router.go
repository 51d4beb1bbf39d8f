package handler

import (
	"net/http"

	"dokan-backend/internal/ratelimit"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Orders   *OrderHandler
	Products *ProductHandler
	Reviews  *ReviewHandler
	Tokens   *service.TokenManager
	Limiter  *ratelimit.Limiter
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// "dokan-backend" is the service name traces show up under.
	router.Use(otelgin.Middleware("dokan-backend"))
	router.Use(MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", RateLimit(h.Limiter, "otp_send", ratelimit.OTPSend), h.Auth.SendOTPHandler)
		auth.POST("/verify-otp", h.Auth.VerifyOTPHandler)
		auth.POST("/signup", h.Auth.SignupHandler)
		auth.POST("/login", RateLimit(h.Limiter, "login", ratelimit.Login), h.Auth.LoginHandler)
		auth.POST("/reset-password", h.Auth.ResetPasswordHandler)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.ListProductsHandler)
		products.GET("/:idOrSlug", h.Products.GetProductHandler)
		products.POST("", Authenticate(h.Tokens, true), RequireAdmin(), h.Products.CreateProductHandler)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", RateLimit(h.Limiter, "order_create", ratelimit.OrderCreate), Authenticate(h.Tokens, false), h.Orders.CreateOrderHandler)
		orders.GET("/track/:orderNumber", h.Orders.TrackOrderHandler)
		orders.GET("", Authenticate(h.Tokens, true), h.Orders.ListOrdersHandler)
		orders.GET("/:orderNumber", Authenticate(h.Tokens, true), h.Orders.GetOrderHandler)
		orders.POST("/:orderNumber/return", Authenticate(h.Tokens, true), h.Orders.RequestReturnHandler)
		orders.PATCH("/:orderNumber/status", Authenticate(h.Tokens, true), RequireAdmin(), h.Orders.UpdateStatusHandler)
		orders.PATCH("/:orderNumber/verify-payment", Authenticate(h.Tokens, true), RequireAdmin(), h.Orders.VerifyPaymentHandler)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", Authenticate(h.Tokens, true), h.Reviews.CreateReviewHandler)
		reviews.GET("/product/:productId", h.Reviews.ListProductReviewsHandler)
		reviews.PATCH("/:id/moderate", Authenticate(h.Tokens, true), RequireAdmin(), h.Reviews.ModerateReviewHandler)
	}

	return router
}
