package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vestra/vestra-backend/config"
	"github.com/vestra/vestra-backend/internal/app/controller"
	"github.com/vestra/vestra-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	reviewController  *controller.ReviewController
	savedController   *controller.SavedController
	chatController    *controller.ChatController
	themeController   *controller.ThemeController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	reviewController *controller.ReviewController,
	savedController *controller.SavedController,
	chatController *controller.ChatController,
	themeController *controller.ThemeController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		reviewController:  reviewController,
		savedController:   savedController,
		chatController:    chatController,
		themeController:   themeController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Vestra API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.authMiddleware.OptionalAuthenticate(), r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeatured)
			products.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.GetProductReviews)
			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.SubmitReview,
			)
		}

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveCartItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		saved := v1.Group("/saved", r.authMiddleware.Authenticate())
		{
			saved.GET("", r.savedController.GetSavedProducts)
			saved.POST("/:productId/toggle", r.savedController.ToggleSaved)
		}

		chat := v1.Group("/chat", r.authMiddleware.Authenticate())
		{
			chat.POST("/conversations", r.chatController.StartConversation)
			chat.GET("/conversations", r.chatController.GetMyConversations)
			chat.GET("/conversations/:id/messages", r.chatController.GetMessages)
			chat.GET("/conversations/:id/messages/poll", r.chatController.PollMessages)
			chat.POST("/conversations/:id/messages", r.chatController.SendMessage)
			chat.GET("/conversations/:id/ws", r.chatController.HandleWebSocket)
		}

		v1.GET("/theme", r.themeController.GetTheme)

		v1.POST("/upload/presigned-url",
			r.authMiddleware.Authenticate(),
			r.uploadController.GeneratePresignedURL,
		)

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireAdmin(),
		)
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.GET("/orders/export", r.orderController.ExportOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)

			admin.DELETE("/reviews/:id", r.reviewController.DeleteReview)

			admin.GET("/chat/conversations", r.chatController.GetInbox)
			admin.POST("/chat/conversations/:id/close", r.chatController.CloseConversation)
			admin.POST("/chat/conversations/:id/reopen", r.chatController.ReopenConversation)

			admin.PUT("/theme", r.themeController.UpdateTheme)
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
