package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/ozanyurtsever/quickshow/internal/domain"
)

type MockBookingRepo struct {
	domain.BookingRepository
	CreateWithSeatHoldFunc    func(ctx context.Context, booking *domain.Booking) error
	GetByIdFunc               func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetSummariesByUserIdFunc  func(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error)
	SetPaymentSessionFunc     func(ctx context.Context, id uuid.UUID, checkoutSessionID, paymentURL string) error
	ConfirmFunc               func(ctx context.Context, id uuid.UUID) (bool, error)
	MarkAbandonedFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteWithSeatReleaseFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockBookingRepo) CreateWithSeatHold(ctx context.Context, booking *domain.Booking) error {
	return m.CreateWithSeatHoldFunc(ctx, booking)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockBookingRepo) GetSummariesByUserId(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {
	return m.GetSummariesByUserIdFunc(ctx, userID, pagination)
}

func (m *MockBookingRepo) SetPaymentSession(ctx context.Context, id uuid.UUID, checkoutSessionID, paymentURL string) error {
	return m.SetPaymentSessionFunc(ctx, id, checkoutSessionID, paymentURL)
}

func (m *MockBookingRepo) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.ConfirmFunc(ctx, id)
}

func (m *MockBookingRepo) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.MarkAbandonedFunc(ctx, id)
}

func (m *MockBookingRepo) DeleteWithSeatRelease(ctx context.Context, id uuid.UUID) error {
	return m.DeleteWithSeatReleaseFunc(ctx, id)
}
