package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

var API_ENV = os.Getenv("API_ENV")

// PricingFetchTimeout bounds the tier lookup so a slow store surfaces as a
// retryable timeout instead of hanging the booking form.
const PricingFetchTimeout = 10 * time.Second

// Display-only processing fee estimate. The payment provider computes the
// authoritative fee on its side; these mirror its published card rate.
const (
	ProcessingFeeRate = 0.017
	ProcessingFeeFlat = 0.30
)

// UnlimitedTicketsSentinel stands in for "no cap" when an event has no
// max_attendees and the catalog must still report a tickets-available figure.
const UnlimitedTicketsSentinel = 999

// MaxTicketsPerBooking caps a single booking regardless of capacity.
const MaxTicketsPerBooking = 10

// PendingBookingTTL is how long a pending-payment booking holds its seats
// before the expiry job releases them.
const PendingBookingTTL = 1 * time.Hour

// ConfirmedRedirectDelay is the grace period before a zero-amount confirmed
// booking is redirected to its success page.
const ConfirmedRedirectDelay = 3 * time.Second
