// Package api holds the wire-level request and response types of the booking
// service.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type CreateBookingRequest struct {
	ShowId        int      `json:"showId" validate:"required,gt=0"`
	SelectedSeats []string `json:"selectedSeats" validate:"required,min=1,unique,dive,seat_label"`
}

type CreateBookingResponse struct {
	BookingId   string `json:"bookingId"`
	RedirectUrl string `json:"redirectUrl"`
}

type OccupiedSeatsResponse struct {
	ShowId        int      `json:"showId"`
	OccupiedSeats []string `json:"occupiedSeats"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BookingSummary struct {
	Id             string          `json:"id"`
	MovieTitle     string          `json:"movieTitle"`
	MoviePosterUrl string          `json:"moviePosterUrl,omitempty"`
	ShowStartTime  time.Time       `json:"showStartTime"`
	Seats          []string        `json:"seats"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
