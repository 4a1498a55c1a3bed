package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozanyurtsever/quickshow/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// CreateWithSeatHold inserts the booking row and claims its seats on the
// show's seat map in one transaction. The conditional UPDATE on the shows row
// serializes competing holds for the same show; if any requested seat is
// already present in occupied_seats the whole reservation is rejected.
func (p *PostgresBookingRepository) CreateWithSeatHold(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (id, user_id, show_id, seats, amount, currency, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.ID,
			booking.UserID,
			booking.ShowID,
			booking.Seats,
			booking.Amount,
			booking.Currency,
			booking.Status,
		).Scan(&booking.CreatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return domain.ErrRecordNotFound
			}

			return err
		}

		holds := make(domain.SeatMap, len(booking.Seats))
		for _, label := range booking.Seats {
			holds[label] = booking.UserID
		}

		holdsJSON, err := json.Marshal(holds)
		if err != nil {
			return err
		}

		query = `
			UPDATE shows
			SET occupied_seats = occupied_seats || $2::jsonb, version = version + 1
			WHERE id = $1 AND NOT (occupied_seats ?| $3::text[])
		`

		tag, err := tx.Exec(ctx, query, booking.ShowID, holdsJSON, booking.Seats)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrSeatsUnavailable
		}

		return nil
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, seats, amount, currency, status,
			checkout_session_id, payment_url, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.Seats,
		&booking.Amount,
		&booking.Currency,
		&booking.Status,
		&booking.CheckoutSessionID,
		&booking.PaymentURL,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			m.title,
			m.poster_url,
			s.start_time,
			b.seats,
			b.amount,
			b.status,
			b.created_at
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&booking.BookingID,
			&booking.MovieTitle,
			&booking.MoviePosterUrl,
			&booking.ShowStartTime,
			&booking.Seats,
			&booking.Amount,
			&booking.Status,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) SetPaymentSession(
	ctx context.Context,
	id uuid.UUID,
	checkoutSessionID, paymentURL string) error {

	query := `
		UPDATE bookings
		SET checkout_session_id = $2, payment_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, id, checkoutSessionID, paymentURL)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresBookingRepository) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// MarkAbandoned is the reconciliation write path. The status gate on the
// bookings row makes it idempotent: a second fire finds no pending row and
// touches nothing, so seats re-held by a later booking are never released.
func (p *PostgresBookingRepository) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	abandoned := false

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'abandoned', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING show_id, seats
		`

		var showID int
		var seats []string

		err := tx.QueryRow(ctx, query, id).Scan(&showID, &seats)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}

			return err
		}

		err = releaseSeats(ctx, tx, showID, seats)
		if err != nil {
			return err
		}

		abandoned = true

		return nil
	})

	return abandoned, err
}

// DeleteWithSeatRelease releases the booking's seats and removes the booking
// row. The booking row is locked first so a concurrent reconciliation of the
// same booking serializes with the cancellation, and the seat release is part
// of the same transaction as the delete. Abandoned bookings no longer hold
// seats (reconciliation released them, and a newer booking may hold them
// now), so for those only the row is removed.
func (p *PostgresBookingRepository) DeleteWithSeatRelease(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT show_id, seats, status
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`

		var showID int
		var seats []string
		var status domain.BookingStatus

		err := tx.QueryRow(ctx, query, id).Scan(&showID, &seats, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if status != domain.BookingStatusAbandoned {
			err = releaseSeats(ctx, tx, showID, seats)
			if err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)

		return err
	})
}

func releaseSeats(ctx context.Context, tx pgx.Tx, showID int, seats []string) error {
	query := `
		UPDATE shows
		SET occupied_seats = occupied_seats - $2::text[], version = version + 1
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, showID, seats)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("show %d not found while releasing seats", showID)
	}

	return nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
