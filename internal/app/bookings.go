package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ozanyurtsever/quickshow/api"
	"github.com/ozanyurtsever/quickshow/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CreateBookingHandler reserves seats for a show and hands the caller a
// payment redirect URL. The availability fast path below is advisory only;
// the authoritative check happens inside CreateWithSeatHold, which claims the
// seats atomically.
func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	show, err := app.showRepo.GetById(r.Context(), input.ShowId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if show.OccupiedSeats.AnyHeld(input.SelectedSeats) {
		app.seatsUnavailableResponse(w, r)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), show.MovieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booking := domain.NewBooking(userId, show, input.SelectedSeats)

	err = app.bookingRepo.CreateWithSeatHold(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatsUnavailable):
			app.seatsUnavailableResponse(w, r)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(
		r.Context(),
		booking,
		movie.Title,
		r.Header.Get("Origin"),
	)
	if err != nil {
		app.rollbackBooking(r.Context(), booking, "")

		switch {
		case errors.Is(err, domain.ErrGatewayUnavailable):
			app.badGatewayResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.bookingRepo.SetPaymentSession(r.Context(), booking.ID, checkoutSession.ID, checkoutSession.URL)
	if err != nil {
		app.rollbackBooking(r.Context(), booking, checkoutSession.ID)
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.schedulePaymentCheck(r.Context(), booking.ID)
	if err != nil {
		app.rollbackBooking(r.Context(), booking, checkoutSession.ID)
		app.serverErrorResponse(w, r, fmt.Errorf("failed to schedule payment check: %w", err))
		return
	}

	resp := api.CreateBookingResponse{
		BookingId:   booking.ID.String(),
		RedirectUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// schedulePaymentCheck retries once before giving up: a reservation without a
// reconciliation task would hold its seats forever if the payment is
// abandoned.
func (app *Application) schedulePaymentCheck(ctx context.Context, bookingID uuid.UUID) error {
	task := domain.CheckPaymentTask{BookingID: bookingID.String()}

	err := app.scheduler.Schedule(ctx, domain.TaskCheckPayment, task, app.config.Booking.PaymentCheckDelay)
	if err == nil {
		return nil
	}

	app.logger.Warn("retrying payment check scheduling", "booking_id", bookingID, "error", err)

	return app.scheduler.Schedule(ctx, domain.TaskCheckPayment, task, app.config.Booking.PaymentCheckDelay)
}

// rollbackBooking undoes a partially created reservation: the seat hold and
// booking row are removed, and the checkout session, when one was already
// issued, is expired. If the rollback itself fails, a reconciliation task is
// scheduled as a fallback so the hold is not stranded.
func (app *Application) rollbackBooking(ctx context.Context, booking *domain.Booking, checkoutSessionID string) {
	// The rollback must run to completion even when the caller's request
	// context is already cancelled, e.g. the client disconnected mid-request.
	ctx = context.WithoutCancel(ctx)

	if checkoutSessionID != "" {
		err := app.paymentProvider.ExpireCheckoutSession(ctx, checkoutSessionID)
		if err != nil {
			app.logger.Error("failed to expire checkout session during rollback",
				"booking_id", booking.ID, "error", err)
		}
	}

	err := app.bookingRepo.DeleteWithSeatRelease(ctx, booking.ID)
	if err == nil || errors.Is(err, domain.ErrRecordNotFound) {
		return
	}

	app.logger.Error("failed to roll back seat hold", "booking_id", booking.ID, "error", err)

	task := domain.CheckPaymentTask{BookingID: booking.ID.String()}

	err = app.scheduler.Schedule(ctx, domain.TaskCheckPayment, task, app.config.Booking.PaymentCheckDelay)
	if err != nil {
		app.logger.Error("failed to schedule fallback payment check", "booking_id", booking.ID, "error", err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingId"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid booking ID"))
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	userId := app.contextGetUserId(r)
	if booking.UserID != userId {
		app.notFoundResponse(w, r)
		return
	}

	show, err := app.showRepo.GetById(r.Context(), booking.ShowID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.logger.Error("booking references a missing show", "booking_id", booking.ID, "show_id", booking.ShowID)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	cutoff := app.config.Booking.CancellationCutoff
	if err := show.CancellableAt(time.Now(), cutoff); err != nil {
		switch {
		case errors.Is(err, domain.ErrCancellationWindowClosed):
			app.errorResponse(w, r, http.StatusBadRequest,
				fmt.Sprintf("Cancellations are only allowed at least %s before showtime", cutoff))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.bookingRepo.DeleteWithSeatRelease(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.MessageResponse{Message: "Booking cancelled and seats released"}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if page := r.URL.Query().Get("page"); page != "" {
		pageNum, err := strconv.Atoi(page)
		if err != nil || pageNum < 1 {
			app.badRequestResponse(w, r, fmt.Errorf("page must be a positive integer"))
			return
		}
		pagination.Page = pageNum
	}

	if pageSize := r.URL.Query().Get("pageSize"); pageSize != "" {
		pageSizeNum, err := strconv.Atoi(pageSize)
		if err != nil || pageSizeNum < 1 || pageSizeNum > MaxPageSize {
			app.badRequestResponse(w, r, fmt.Errorf("pageSize must be between 1 and %d", MaxPageSize))
			return
		}
		pagination.PageSize = pageSizeNum
	}

	userId := app.contextGetUserId(r)

	bookings, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: toBookingSummaries(bookings),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingSummaries(bookings []domain.BookingSummary) []api.BookingSummary {
	summaries := make([]api.BookingSummary, len(bookings))

	for i, v := range bookings {
		summary := &summaries[i]

		summary.Id = v.BookingID.String()
		summary.MovieTitle = v.MovieTitle
		summary.MoviePosterUrl = v.MoviePosterUrl
		summary.ShowStartTime = v.ShowStartTime
		summary.Seats = v.Seats
		summary.Amount = v.Amount
		summary.Currency = "USD"
		summary.Status = string(v.Status)
		summary.CreatedAt = v.CreatedAt
	}

	return summaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
