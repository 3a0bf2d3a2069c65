package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDueDate(t *testing.T) {
	rentedAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	result := DueDate(rentedAt, 14)

	assert.Equal(t, rentedAt.AddDate(0, 0, 14), result)
	assert.Equal(t, 14*24*time.Hour, result.Sub(rentedAt))
}

func TestDaysLate(t *testing.T) {
	dueDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{
			name:     "before due date",
			now:      dueDate.AddDate(0, 0, -3),
			expected: 0,
		},
		{
			name:     "exactly on due date",
			now:      dueDate,
			expected: 0,
		},
		{
			name:     "partial day counts as one",
			now:      dueDate.Add(5 * time.Hour),
			expected: 1,
		},
		{
			name:     "sixteen days past due",
			now:      dueDate.AddDate(0, 0, 16),
			expected: 16,
		},
		{
			name:     "sixteen days and change rounds up",
			now:      dueDate.AddDate(0, 0, 16).Add(time.Hour),
			expected: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysLate(tt.now, dueDate))
		})
	}
}

func TestLateFeePerDay(t *testing.T) {
	fee := LateFeePerDay(decimal.NewFromFloat(30.0), decimal.NewFromFloat(0.10))

	assert.True(t, fee.Equal(decimal.NewFromFloat(3.0)),
		"Expected 3.0, but got %v", fee)
}

func TestIsValidCouponCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{name: "valid code", code: "C001", valid: true},
		{name: "upper bound", code: "C200", valid: true},
		{name: "lowercase letter", code: "c042", valid: true},
		{name: "out of registry range", code: "C201", valid: false},
		{name: "zero is outside range", code: "C000", valid: false},
		{name: "too short", code: "C01", valid: false},
		{name: "too long", code: "C0001", valid: false},
		{name: "no leading letter", code: "1001", valid: false},
		{name: "trailing letter", code: "C0A1", valid: false},
		{name: "empty", code: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCouponCode(tt.code, 200))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("5551234567"))
	assert.False(t, IsValidPhone("555123456"))
	assert.False(t, IsValidPhone("55512345678"))
	assert.False(t, IsValidPhone("555-123-4567"))
	assert.False(t, IsValidPhone(""))
}

func TestIsValidCardNumber(t *testing.T) {
	assert.True(t, IsValidCardNumber("4111111111111111"))
	assert.False(t, IsValidCardNumber("411111111111111"))
	assert.False(t, IsValidCardNumber("4111-1111-1111-1111"))
	assert.False(t, IsValidCardNumber("4111111111111111x"))
}
