package router

import (
	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/controller"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/bellavista/bellavista-backend/internal/ws"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	catalogController    *controller.CatalogController
	cartController       *controller.CartController
	orderController      *controller.OrderController
	discountController   *controller.DiscountController
	cityController       *controller.CityController
	addressController    *controller.AddressController
	restaurantController *controller.RestaurantController
	adminController      *controller.AdminController
	uploadController     *controller.UploadController
	hub                  *ws.Hub
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	discountController *controller.DiscountController,
	cityController *controller.CityController,
	addressController *controller.AddressController,
	restaurantController *controller.RestaurantController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		catalogController:    catalogController,
		cartController:       cartController,
		orderController:      orderController,
		discountController:   discountController,
		cityController:       cityController,
		addressController:    addressController,
		restaurantController: restaurantController,
		adminController:      adminController,
		uploadController:     uploadController,
		hub:                  hub,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.VisitorMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Bella Vista API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
		}

		v1.POST("/guest", r.cartController.CreateGuestSession)

		// Public catalog.
		v1.GET("/items", r.authMiddleware.OptionalAuthenticate(), r.catalogController.ListItems)
		v1.GET("/items/:id", r.catalogController.GetItem)
		v1.GET("/categories", r.catalogController.ListCategories)
		v1.GET("/cities", r.cityController.List)
		v1.GET("/restaurant", r.restaurantController.GetSettings)

		// Cart: authenticated users and guests (guest_id query parameter).
		cart := v1.Group("/cart", r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.Clear)
			cart.POST("/items", r.cartController.AddItems)
			cart.PUT("/items", r.cartController.SetQuantity)
			cart.DELETE("/items", r.cartController.RemoveItem)
			cart.POST("/discount", r.cartController.ApplyDiscount)
			cart.DELETE("/discount", r.cartController.RemoveDiscount)
		}

		orders := v1.Group("/orders", r.authMiddleware.OptionalAuthenticate())
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		addresses := v1.Group("/addresses", r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.List)
			addresses.POST("", r.addressController.Create)
			addresses.PUT("/:id", r.addressController.Update)
			addresses.DELETE("/:id", r.addressController.Delete)
		}

		// Live order-status feed. Token may come via query parameter.
		v1.GET("/ws/orders", r.authMiddleware.OptionalAuthenticate(), r.hub.HandleConnection)

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.GET("/dashboard", r.adminController.Dashboard)
			admin.GET("/users", r.adminController.ListUsers)
			admin.GET("/carts", r.adminController.ListCarts)

			admin.GET("/orders", r.orderController.ListAllOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)
			admin.PATCH("/orders/:id/status", r.orderController.UpdateStatus)
			admin.PATCH("/orders/:id/payment", r.orderController.UpdatePaymentStatus)

			admin.POST("/items", r.catalogController.CreateItem)
			admin.PUT("/items/:id", r.catalogController.UpdateItem)
			admin.DELETE("/items/:id", r.catalogController.DeleteItem)
			admin.POST("/items/:id/prices", r.catalogController.AddPrice)
			admin.PUT("/prices/:id", r.catalogController.UpdatePrice)
			admin.DELETE("/prices/:id", r.catalogController.DeletePrice)

			admin.POST("/categories", r.catalogController.CreateCategory)
			admin.PUT("/categories/:id", r.catalogController.UpdateCategory)
			admin.DELETE("/categories/:id", r.catalogController.DeleteCategory)

			admin.GET("/discounts", r.discountController.List)
			admin.POST("/discounts", r.discountController.Create)
			admin.PUT("/discounts/:id", r.discountController.Update)
			admin.DELETE("/discounts/:id", r.discountController.Delete)

			admin.POST("/cities", r.cityController.Create)
			admin.PUT("/cities/:id", r.cityController.Update)
			admin.DELETE("/cities/:id", r.cityController.Delete)

			admin.PUT("/restaurant", r.restaurantController.UpdateSettings)

			admin.POST("/uploads/presign", r.uploadController.PresignUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
