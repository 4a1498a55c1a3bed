package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusAbandoned BookingStatus = "abandoned"
)

type Booking struct {
	ID                uuid.UUID
	UserID            int
	ShowID            int
	Seats             []string
	Amount            decimal.Decimal
	Currency          string
	Status            BookingStatus
	CheckoutSessionID *string
	PaymentURL        *string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// NewBooking prices the requested seats against the show's base price.
func NewBooking(userID int, show *Show, seats []string) *Booking {
	amount := show.BasePrice.Mul(decimal.NewFromInt(int64(len(seats))))

	return &Booking{
		ID:       uuid.New(),
		UserID:   userID,
		ShowID:   show.ID,
		Seats:    seats,
		Amount:   amount,
		Currency: "USD",
		Status:   BookingStatusPending,
	}
}

// AmountCents returns the booking amount in minor currency units, as payment
// gateways expect it.
func (b *Booking) AmountCents() int64 {
	return b.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}

type BookingSummary struct {
	BookingID      uuid.UUID
	MovieTitle     string
	MoviePosterUrl string
	ShowStartTime  time.Time
	Seats          []string
	Amount         decimal.Decimal
	Status         BookingStatus
	CreatedAt      time.Time
}

type BookingRepository interface {
	// CreateWithSeatHold inserts the booking and marks its seats as taken on
	// the show's seat map in a single transaction. It returns
	// ErrSeatsUnavailable when any requested seat is already taken, in which
	// case nothing is persisted.
	CreateWithSeatHold(ctx context.Context, booking *Booking) error

	GetById(ctx context.Context, id uuid.UUID) (*Booking, error)

	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)

	SetPaymentSession(ctx context.Context, id uuid.UUID, checkoutSessionID, paymentURL string) error

	// Confirm moves a pending booking to confirmed. It reports whether this
	// call performed the transition; a false result means the booking was
	// already in a terminal state.
	Confirm(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkAbandoned moves a pending booking to abandoned and releases its
	// seats back to the show's seat map. It reports whether this call
	// performed the transition.
	MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteWithSeatRelease releases the booking's seats and removes the
	// booking row. The seat release is persisted in the same transaction,
	// ordered before the delete. Abandoned bookings hold no seats anymore;
	// for those only the row is removed.
	DeleteWithSeatRelease(ctx context.Context, id uuid.UUID) error
}
