package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/Khawar13/web-pos/internal/config"
	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"
	"github.com/Khawar13/web-pos/pkg/utils"
)

func main() {
	log.Println("Starting POS scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db, cfg.Business.LowStockThreshold)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Schedule tasks
	setupCronJobs(c, customerRepo, productRepo)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, customerRepo repository.CustomerRepository, productRepo repository.ProductRepository) {
	// Daily job to flag overdue rentals (runs at midnight)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		log.Println("Running daily overdue rental scan...")
		reportOverdueRentals(customerRepo)
	})
	if err != nil {
		log.Printf("Error scheduling overdue rental scan: %v", err)
	}

	// Daily job to report low stock (runs at 6 AM, before opening)
	_, err = c.AddFunc("0 0 6 * * *", func() {
		log.Println("Running daily low stock report...")
		reportLowStock(productRepo)
	})
	if err != nil {
		log.Printf("Error scheduling low stock report: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

// reportOverdueRentals logs every open rental past due with its accumulated
// late fee, so the store can chase returns before fees pile up.
func reportOverdueRentals(customerRepo repository.CustomerRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()
	records, err := customerRepo.ListOverdueRentals(ctx, now)
	if err != nil {
		log.Printf("Overdue rental scan failed: %v", err)
		return
	}

	for _, r := range records {
		daysLate := utils.DaysLate(now, r.DueDate)
		accrued := r.LateFeePerDay.
			Mul(decimal.NewFromInt(int64(daysLate))).
			Mul(decimal.NewFromInt(int64(r.Quantity)))
		log.Printf("overdue rental: customer=%s product=%s (%s) qty=%d days_late=%d accrued_fee=$%s",
			r.CustomerID, r.ProductID, r.ProductName, r.Quantity, daysLate, accrued.StringFixed(2))
	}

	log.Printf("Overdue rental scan complete: %d open records past due", len(records))
}

// reportLowStock logs products at or below the low-stock threshold,
// out-of-stock items included.
func reportLowStock(productRepo repository.ProductRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	products, err := productRepo.List(ctx, domain.ProductFilter{LowStockOnly: true, IncludeZeroes: true})
	if err != nil {
		log.Printf("Low stock report failed: %v", err)
		return
	}

	for _, p := range products {
		log.Printf("low stock: product=%s (%s) quantity=%d", p.ProductID, p.Name, p.Quantity)
	}

	log.Printf("Low stock report complete: %d products flagged", len(products))
}
