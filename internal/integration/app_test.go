package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozanyurtsever/quickshow/internal/app"
	"github.com/ozanyurtsever/quickshow/internal/mailer"
	"github.com/ozanyurtsever/quickshow/internal/payment"
	"github.com/ozanyurtsever/quickshow/internal/repository"
	appvalidator "github.com/ozanyurtsever/quickshow/internal/validator"
)

type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	Mailer          *mailer.MockMailer
	PaymentProvider *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	showRepo := repository.NewPostgresShowRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	paymentProvider := payment.NewMockPaymentProvider()

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		showRepo,
		movieRepo,
		bookingRepo,
		paymentProvider,
	)

	return &TestApp{
		App:             application,
		DB:              db,
		Mailer:          mockMailer,
		PaymentProvider: paymentProvider,
	}, nil
}
