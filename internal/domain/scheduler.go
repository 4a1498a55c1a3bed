package domain

import (
	"context"
	"time"
)

// TaskCheckPayment asks the reconciliation handler to settle a booking
// against its payment session outcome.
const TaskCheckPayment = "checkpayment"

type CheckPaymentTask struct {
	BookingID string `json:"bookingId"`
}

// TaskScheduler hands a named task off for delayed delivery. Delivery is
// at-least-once; handlers must be idempotent.
type TaskScheduler interface {
	Schedule(ctx context.Context, name string, data any, delay time.Duration) error
}
