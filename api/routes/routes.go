package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/config"
	"github.com/leiturapay/leiturapay-backend/internal/handlers"
	"github.com/leiturapay/leiturapay-backend/internal/middleware"
)

// HandlerDependencies collects the handlers wired in main
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	BookHandler       *handlers.BookHandler
	ReadingHandler    *handlers.ReadingHandler
	WithdrawalHandler *handlers.WithdrawalHandler
	AdminHandler      *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Authenticated routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.UserHandler.GetMe)
			users.GET("/me/transactions", deps.UserHandler.GetMyTransactions)
		}

		books := protected.Group("/books")
		{
			books.GET("", deps.BookHandler.GetBooks)
			books.GET("/:id", deps.BookHandler.GetBookByID)
			books.GET("/:id/reviews", deps.BookHandler.GetBookReviews)
			books.POST("/:id/start-reading", deps.ReadingHandler.StartReading)
			books.POST("/:id/complete", deps.ReadingHandler.CompleteReading)
		}

		withdrawals := protected.Group("/withdrawals")
		{
			withdrawals.POST("", deps.WithdrawalHandler.RequestWithdrawal)
			withdrawals.GET("", deps.WithdrawalHandler.GetMyWithdrawals)
		}
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireAdmin())
	{
		admin.GET("/users", deps.AdminHandler.GetUsers)
		admin.GET("/users/count", deps.AdminHandler.GetUserCount)
		admin.PUT("/users/:id/plan", deps.AdminHandler.UpdateUserPlan)

		admin.GET("/books", deps.AdminHandler.GetBooks)
		admin.POST("/books", deps.AdminHandler.CreateBook)
		admin.PUT("/books/:id", deps.AdminHandler.UpdateBook)
		admin.DELETE("/books/:id", deps.AdminHandler.DeleteBook)

		admin.GET("/withdrawals", deps.AdminHandler.GetWithdrawals)
		admin.POST("/withdrawals/:id/approve", deps.AdminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", deps.AdminHandler.RejectWithdrawal)
	}

	return router
}
