package utils

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	couponCodePattern = regexp.MustCompile(`^[A-Za-z][0-9]{3}$`)
	cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{10}$`)
)

// DueDate calculates the return due date for a rental started at rentedAt
func DueDate(rentedAt time.Time, periodDays int) time.Time {
	return rentedAt.AddDate(0, 0, periodDays)
}

// DaysLate returns the number of whole days now is past the due date,
// rounding partial days up. Never negative.
func DaysLate(now, dueDate time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	elapsed := now.Sub(dueDate)
	return int(math.Ceil(elapsed.Hours() / 24))
}

// LateFeePerDay calculates the daily late fee from a product's sale price
func LateFeePerDay(salePrice, lateFeeRate decimal.Decimal) decimal.Decimal {
	return salePrice.Mul(lateFeeRate)
}

// IsValidCouponCode checks the registry format: one letter followed by three
// digits, with the numeric part inside the registry range (001..max). Codes
// failing this check are rejected before any repository lookup.
func IsValidCouponCode(code string, max int) bool {
	if !couponCodePattern.MatchString(code) {
		return false
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil {
		return false
	}
	return n >= 1 && n <= max
}

// IsValidPhone checks for a 10-digit phone number
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidCardNumber checks for a 16-digit card number
func IsValidCardNumber(cardNumber string) bool {
	return cardNumberPattern.MatchString(cardNumber)
}
