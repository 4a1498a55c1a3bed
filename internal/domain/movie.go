package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID          int
	Title       string
	PosterUrl   string
	ReleaseDate time.Time
}

type MovieRepository interface {
	GetById(ctx context.Context, id int) (*Movie, error)
}
