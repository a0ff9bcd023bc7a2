package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID                int
	Reference         string
	TourID            int
	UserID            int
	CheckoutSessionID string
	Amount            decimal.Decimal
	Currency          string
	Paid              bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

// BookingSummary is the flattened row returned by booking listings.
type BookingSummary struct {
	BookingID int
	Reference string
	TourName  string
	TourSlug  string
	Amount    decimal.Decimal
	Paid      bool
	CreatedAt time.Time
}

type BookingRepository interface {
	// Create inserts a booking keyed by its checkout session id. A
	// redelivered webhook event hits the unique constraint and gets
	// ErrDuplicateBooking instead of a second row.
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id int) (*Booking, error)
	GetAll(ctx context.Context, pagination Pagination) ([]BookingSummary, *Metadata, error)
	GetByUserId(ctx context.Context, userId int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id int) error
}
