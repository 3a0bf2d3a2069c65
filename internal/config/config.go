package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// BusinessConfig carries the store policy constants. Defaults are the
// policies the counter runs on: 6% tax on sales and rentals, 14-day rental
// period, 10%/day late fee, 10% coupon discount on codes C001..C200.
type BusinessConfig struct {
	TaxRate           string `mapstructure:"TAX_RATE"`
	RentalPeriodDays  int    `mapstructure:"RENTAL_PERIOD_DAYS"`
	LateFeeRate       string `mapstructure:"LATE_FEE_RATE"`
	CouponDiscount    string `mapstructure:"COUPON_DISCOUNT"`
	CouponCodeMax     int    `mapstructure:"COUPON_CODE_MAX"`
	LowStockThreshold int    `mapstructure:"LOW_STOCK_THRESHOLD"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TAX_RATE", "0.06")
	viper.SetDefault("RENTAL_PERIOD_DAYS", 14)
	viper.SetDefault("LATE_FEE_RATE", "0.10")
	viper.SetDefault("COUPON_DISCOUNT", "0.10")
	viper.SetDefault("COUPON_CODE_MAX", 200)
	viper.SetDefault("LOW_STOCK_THRESHOLD", 10)
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/New_York")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.RentalPeriodDays <= 0 {
		return fmt.Errorf("RENTAL_PERIOD_DAYS must be greater than 0")
	}

	if c.Business.CouponCodeMax <= 0 {
		return fmt.Errorf("COUPON_CODE_MAX must be greater than 0")
	}

	if c.Business.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative")
	}

	for name, value := range map[string]string{
		"TAX_RATE":        c.Business.TaxRate,
		"LATE_FEE_RATE":   c.Business.LateFeeRate,
		"COUPON_DISCOUNT": c.Business.CouponDiscount,
	} {
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetTaxRate returns the sale/rental tax rate as decimal
func (c *Config) GetTaxRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.TaxRate)
	return rate
}

// GetLateFeeRate returns the per-day late fee rate as decimal
func (c *Config) GetLateFeeRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.LateFeeRate)
	return rate
}

// GetCouponDiscount returns the fixed coupon discount rate as decimal
func (c *Config) GetCouponDiscount() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.CouponDiscount)
	return rate
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
