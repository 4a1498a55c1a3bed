package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ozanyurtsever/quickshow/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// handleCheckPaymentTask settles a booking once its payment window has
// elapsed. Paid bookings are confirmed; unpaid ones are abandoned and their
// seats released. The handler is idempotent: redelivered tasks and bookings
// already in a terminal state are no-ops, so at-least-once delivery from the
// scheduler is safe.
func (app *Application) handleCheckPaymentTask(ctx context.Context, data json.RawMessage) error {
	var task domain.CheckPaymentTask

	err := json.Unmarshal(data, &task)
	if err != nil {
		return fmt.Errorf("failed to decode payment check task: %w", err)
	}

	bookingID, err := uuid.Parse(task.BookingID)
	if err != nil {
		app.logger.Error("payment check task carries a malformed booking id", "booking_id", task.BookingID)
		return nil
	}

	booking, err := app.bookingRepo.GetById(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Cancelled or rolled back before the check fired.
			return nil
		}

		return err
	}

	if booking.Status != domain.BookingStatusPending {
		return nil
	}

	if booking.CheckoutSessionID == nil {
		return app.abandonBooking(ctx, booking)
	}

	checkoutSession, err := app.paymentProvider.GetCheckoutSession(ctx, *booking.CheckoutSessionID)
	if err != nil {
		// Returning the error leaves the task on the queue for a retry.
		return fmt.Errorf("failed to look up checkout session %s: %w", *booking.CheckoutSessionID, err)
	}

	if checkoutSession.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		return app.confirmBooking(ctx, booking, checkoutSession)
	}

	if checkoutSession.Status == stripe.CheckoutSessionStatusOpen {
		err = app.paymentProvider.ExpireCheckoutSession(ctx, checkoutSession.ID)
		if err != nil {
			app.logger.Error("failed to expire unpaid checkout session",
				"booking_id", booking.ID, "checkout_session_id", checkoutSession.ID, "error", err)
		}
	}

	return app.abandonBooking(ctx, booking)
}

func (app *Application) confirmBooking(ctx context.Context, booking *domain.Booking, checkoutSession *stripe.CheckoutSession) error {
	confirmed, err := app.bookingRepo.Confirm(ctx, booking.ID)
	if err != nil {
		return err
	}

	if !confirmed {
		return nil
	}

	app.logger.Info("booking confirmed", "booking_id", booking.ID, "user_id", booking.UserID)

	if checkoutSession.CustomerDetails == nil || checkoutSession.CustomerDetails.Email == "" {
		return nil
	}

	recipient := checkoutSession.CustomerDetails.Email

	app.background(func() {
		show, err := app.showRepo.GetById(context.Background(), booking.ShowID)
		if err != nil {
			app.logger.Error("failed to load show for confirmation email", "booking_id", booking.ID, "error", err)
			return
		}

		movie, err := app.movieRepo.GetById(context.Background(), show.MovieID)
		if err != nil {
			app.logger.Error("failed to load movie for confirmation email", "booking_id", booking.ID, "error", err)
			return
		}

		emailData := map[string]any{
			"BookingID":     booking.ID.String(),
			"MovieTitle":    movie.Title,
			"ShowStartTime": show.StartTime,
			"Seats":         booking.Seats,
			"Amount":        booking.Amount,
			"Currency":      booking.Currency,
		}

		err = app.mailer.Send(recipient, "booking_confirmation.tmpl", emailData)
		if err != nil {
			app.logger.Error("failed to send booking confirmation email", "booking_id", booking.ID, "error", err)
		}
	})

	return nil
}

func (app *Application) abandonBooking(ctx context.Context, booking *domain.Booking) error {
	abandoned, err := app.bookingRepo.MarkAbandoned(ctx, booking.ID)
	if err != nil {
		return err
	}

	if abandoned {
		app.logger.Info("booking abandoned, seats released", "booking_id", booking.ID, "show_id", booking.ShowID)
	}

	return nil
}
