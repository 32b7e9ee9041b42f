package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leiturapay/leiturapay-backend/api/routes"
	"github.com/leiturapay/leiturapay-backend/internal/config"
	"github.com/leiturapay/leiturapay-backend/internal/handlers"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	mongorepo "github.com/leiturapay/leiturapay-backend/internal/repositories/mongodb"
	"github.com/leiturapay/leiturapay-backend/internal/services"
	"github.com/leiturapay/leiturapay-backend/pkg/mongodb"
	"github.com/leiturapay/leiturapay-backend/pkg/pixgateway"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelConnect()

	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var bookRepo repositories.BookRepository = mongorepo.NewBookRepository(db)
	var sessionRepo repositories.ReadingSessionRepository = mongorepo.NewReadingSessionRepository(db)
	var reviewRepo repositories.ReviewRepository = mongorepo.NewReviewRepository(db)
	var transactionRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var withdrawalRepo repositories.WithdrawalRepository = mongorepo.NewWithdrawalRepository(db)
	rewardRepo := mongorepo.NewUserBookRewardRepository(db)
	txRunner := mongorepo.NewTxRunner(mongoClient.Raw())

	if err := rewardRepo.EnsureIndexes(connectCtx); err != nil {
		log.Fatalf("Failed to create reward ledger indexes: %v", err)
	}

	// PIX gateway
	var gateway pixgateway.Gateway
	if cfg.PIX.MockGateway {
		gateway = pixgateway.NewMockGateway()
	} else {
		gateway = pixgateway.NewHTTPGateway(cfg.PIX.BaseURL, cfg.PIX.APIKey)
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, transactionRepo)
	bookService := services.NewBookService(bookRepo, reviewRepo)
	readingService := services.NewReadingService(
		sessionRepo, rewardRepo, reviewRepo, bookRepo, userRepo, transactionRepo,
		txRunner, cfg.Fraud.MaxReadingSpeed,
	)
	withdrawalService := services.NewWithdrawalService(
		withdrawalRepo, userRepo, transactionRepo, gateway, cfg.Business.MinWithdrawalAmount,
	)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		UserHandler:       handlers.NewUserHandler(userService),
		BookHandler:       handlers.NewBookHandler(bookService),
		ReadingHandler:    handlers.NewReadingHandler(readingService),
		WithdrawalHandler: handlers.NewWithdrawalHandler(withdrawalService),
		AdminHandler:      handlers.NewAdminHandler(userService, bookService, withdrawalService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
