// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/interfaces/http/handlers"
	"github.com/nabin216/ZotPot/internal/interfaces/http/middleware"
	"github.com/nabin216/ZotPot/internal/pkg/auth"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Dependencies is everything the API routes are built from
type Dependencies struct {
	Config   *config.Config
	Store    *store.Store
	Session  *app.Session
	Recovery *app.Recovery // optional
	Orders   *app.Orders
	Checkout *app.Checkout
	Tracker  handlers.Tracker
	Tokens   *auth.JWTManager
	Redis    *redis.Client // optional
	Logger   logrus.FieldLogger
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Session, deps.Recovery, deps.Store, deps.Tracker)

	auth := rg.Group("/auth")
	{
		limited := auth.Group("")
		limited.Use(middleware.RateLimit(deps.Config.Security.RateLimitPerMinute, deps.Redis, deps.Logger))
		{
			limited.POST("/register", authHandler.Register)
			limited.POST("/login", authHandler.Login)
			limited.POST("/forgot-password", authHandler.ForgotPassword)
			limited.POST("/reset-password", authHandler.ResetPassword)
		}

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Store))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupProfileRoutes sets up profile editing routes
func SetupProfileRoutes(rg *gin.RouterGroup, deps Dependencies) {
	profileHandler := handlers.NewProfileHandler(deps.Session, deps.Store)
	uploadHandler := handlers.NewUploadHandler(deps.Session, deps.Config.Storage.MaxSize)

	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware(deps.Tokens, deps.Store))
	{
		profile.PUT("", profileHandler.UpdateProfile)
		profile.PUT("/device", profileHandler.RegisterDevice)
		profile.POST("/avatar", uploadHandler.UploadAvatar)
	}
}

// SetupStateRoutes sets up snapshot routes. They are readable without a
// session so the renderer can show the auth screens.
func SetupStateRoutes(rg *gin.RouterGroup, deps Dependencies) {
	stateHandler := handlers.NewStateHandler(deps.Store, middleware.OriginChecker(deps.Config.Security), deps.Logger)

	state := rg.Group("/state")
	{
		state.GET("", stateHandler.GetState)
		state.GET("/stream", stateHandler.Stream)
	}
}

// SetupCartRoutes sets up cart routes. The cart works signed out too.
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Store)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up checkout and payment routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Store))
	{
		protected.POST("/checkout", checkoutHandler.StartCheckout)
		protected.POST("/payment/verify", checkoutHandler.VerifyPayment)
		protected.POST("/payment/failure", checkoutHandler.PaymentFailed)
	}
}

// SetupOrderRoutes sets up order history, detail and tracking routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Store, deps.Orders, deps.Tracker)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Store))
	{
		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.GetOrders)
			orders.POST("/refresh", orderHandler.RefreshOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/track", orderHandler.TrackOrder)
			orders.DELETE("/:id/track", orderHandler.UntrackOrder)
		}

		current := protected.Group("/current-order")
		{
			current.GET("", orderHandler.GetCurrentOrder)
			current.PUT("", orderHandler.ViewOrder)
			current.DELETE("", orderHandler.CloseOrder)
		}

		protected.GET("/tracking", orderHandler.GetTracking)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupStateRoutes(rg, deps)
	SetupAuthRoutes(rg, deps)
	SetupProfileRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
}
