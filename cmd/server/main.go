package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Khawar13/web-pos/internal/config"
	"github.com/Khawar13/web-pos/internal/handler"
	"github.com/Khawar13/web-pos/internal/repository"
	"github.com/Khawar13/web-pos/internal/service"
	"github.com/Khawar13/web-pos/pkg/response"
)

const productCacheTTL = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories; product reads go through the redis cache
	productRepo := service.NewProductCaching(
		repository.NewProductRepository(db, cfg.Business.LowStockThreshold),
		redisClient,
		productCacheTTL,
	)
	customerRepo := repository.NewCustomerRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Initialize services
	couponService := service.NewCouponService(couponRepo, cfg)
	rentalService := service.NewRentalService(customerRepo, cfg)
	inventoryService := service.NewInventoryService(productRepo)
	transactionService := service.NewTransactionService(
		productRepo, customerRepo, transactionRepo,
		couponService, rentalService, inventoryService, cfg,
	)
	productService := service.NewProductService(productRepo, cfg)
	reportService := service.NewReportService(transactionRepo, productRepo, redisClient)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(rentalService)
	couponHandler := handler.NewCouponHandler(couponService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(transactionHandler, productHandler, customerHandler, couponHandler, reportHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	transactionHandler *handler.TransactionHandler,
	productHandler *handler.ProductHandler,
	customerHandler *handler.CustomerHandler,
	couponHandler *handler.CouponHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/sales", transactionHandler.CreateSale).Methods("POST")
	api.HandleFunc("/rentals", transactionHandler.CreateRental).Methods("POST")
	api.HandleFunc("/returns", transactionHandler.CreateReturn).Methods("POST")
	api.HandleFunc("/transactions/{transactionId}", transactionHandler.GetTransaction).Methods("GET")

	api.HandleFunc("/products", productHandler.ListProducts).Methods("GET")
	api.HandleFunc("/products", productHandler.CreateProduct).Methods("POST")
	api.HandleFunc("/products/{productId}", productHandler.GetProduct).Methods("GET")
	api.HandleFunc("/products/{productId}/stock", productHandler.UpdateStock).Methods("PATCH")

	api.HandleFunc("/customers/{phone}/rentals", customerHandler.OutstandingRentals).Methods("GET")
	api.HandleFunc("/coupons/{code}", couponHandler.ValidateCoupon).Methods("GET")

	api.HandleFunc("/reports/sales", reportHandler.SalesReport).Methods("GET")
	api.HandleFunc("/reports/summary", reportHandler.DailySummary).Methods("GET")
	api.HandleFunc("/reports/dashboard", reportHandler.DashboardStats).Methods("GET")

	return router
}
