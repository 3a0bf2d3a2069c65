package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/repository"
	customError "github.com/Khawar13/web-pos/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = time.Minute
	topProductsLimit  = 10
)

// Reporting result shapes. Return totals keep their sign convention, so
// refunds reduce the aggregates they roll into.

type SalesReport struct {
	Period                  string                    `json:"period"`
	TotalSales              decimal.Decimal           `json:"total_sales"`
	TransactionCount        int                       `json:"transaction_count"`
	AverageTransactionValue decimal.Decimal           `json:"average_transaction_value"`
	TopProducts             []ProductSales            `json:"top_products"`
	PaymentMethodBreakdown  []PaymentMethodAggregate  `json:"payment_method_breakdown"`
}

type ProductSales struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type PaymentMethodAggregate struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type DailySummary struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalRentals     decimal.Decimal `json:"total_rentals"`
	TotalReturns     decimal.Decimal `json:"total_returns"`
	TransactionCount int             `json:"transaction_count"`
}

type DashboardStats struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayTransactions int             `json:"today_transactions"`
	LowStockCount     int             `json:"low_stock_count"`
	TotalProducts     int             `json:"total_products"`
}

// ReportService aggregates persisted transactions for reporting. It only
// reads the transaction store; transaction processing never depends on it.
type ReportService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	redis           *redis.Client
}

func NewReportService(transactionRepo repository.TransactionRepository, productRepo repository.ProductRepository, redis *redis.Client) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		redis:           redis,
	}
}

// SalesReport aggregates transactions in [start, end): grand total,
// transaction count, top products by revenue and payment-method breakdown.
func (s *ReportService) SalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	totalSales := decimal.Zero
	productSales := make(map[string]*ProductSales)
	paymentMethods := make(map[string]*PaymentMethodAggregate)

	for _, t := range transactions {
		totalSales = totalSales.Add(t.Total)

		for _, item := range t.Items {
			ps, ok := productSales[item.ProductName]
			if !ok {
				ps = &ProductSales{ProductName: item.ProductName, Revenue: decimal.Zero}
				productSales[item.ProductName] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.Subtotal)
		}

		pm, ok := paymentMethods[t.PaymentMethod]
		if !ok {
			pm = &PaymentMethodAggregate{Method: t.PaymentMethod, Total: decimal.Zero}
			paymentMethods[t.PaymentMethod] = pm
		}
		pm.Count++
		pm.Total = pm.Total.Add(t.Total)
	}

	topProducts := make([]ProductSales, 0, len(productSales))
	for _, ps := range productSales {
		topProducts = append(topProducts, *ps)
	}
	sort.Slice(topProducts, func(i, j int) bool {
		return topProducts[i].Revenue.GreaterThan(topProducts[j].Revenue)
	})
	if len(topProducts) > topProductsLimit {
		topProducts = topProducts[:topProductsLimit]
	}

	breakdown := make([]PaymentMethodAggregate, 0, len(paymentMethods))
	for _, pm := range paymentMethods {
		breakdown = append(breakdown, *pm)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Method < breakdown[j].Method
	})

	average := decimal.Zero
	if len(transactions) > 0 {
		average = totalSales.Div(decimal.NewFromInt(int64(len(transactions))))
	}

	return &SalesReport{
		Period:                  fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		TotalSales:              totalSales,
		TransactionCount:        len(transactions),
		AverageTransactionValue: average,
		TopProducts:             topProducts,
		PaymentMethodBreakdown:  breakdown,
	}, nil
}

// DailySummary totals today's transactions per type. Return totals are
// reported as magnitudes.
func (s *ReportService) DailySummary(ctx context.Context) (*DailySummary, error) {
	start, end := todayRange()

	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &DailySummary{
		TotalSales:   decimal.Zero,
		TotalRentals: decimal.Zero,
		TotalReturns: decimal.Zero,
	}

	for _, t := range transactions {
		summary.TransactionCount++
		switch t.Type {
		case domain.TransactionTypeSale:
			summary.TotalSales = summary.TotalSales.Add(t.Total)
		case domain.TransactionTypeRental:
			summary.TotalRentals = summary.TotalRentals.Add(t.Total)
		case domain.TransactionTypeReturn:
			summary.TotalReturns = summary.TotalReturns.Add(t.Total.Abs())
		}
	}

	return summary, nil
}

// DashboardStats serves the landing-page counters, cached in redis for a
// minute since every terminal polls them.
func (s *ReportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if val, err := s.redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(val), &stats); err == nil {
			return &stats, nil
		}
		log.Printf("can't decode cached dashboard stats: %v", err)
	} else if err != redis.Nil {
		log.Printf("can't get dashboard stats from redis: %v", err)
	}

	start, end := todayRange()
	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	products, err := s.productRepo.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	lowStock, err := s.productRepo.List(ctx, domain.ProductFilter{LowStockOnly: true, IncludeZeroes: true})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	stats := &DashboardStats{
		TodaySales:        decimal.Zero,
		TodayTransactions: len(transactions),
		LowStockCount:     len(lowStock),
		TotalProducts:     len(products),
	}
	for _, t := range transactions {
		stats.TodaySales = stats.TodaySales.Add(t.Total)
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
			log.Printf("can't cache dashboard stats: %v", err)
		}
	}

	return stats, nil
}

func todayRange() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
