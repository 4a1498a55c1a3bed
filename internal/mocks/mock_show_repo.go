package mocks

import (
	"context"

	"github.com/ozanyurtsever/quickshow/internal/domain"
)

type MockShowRepo struct {
	domain.ShowRepository
	GetByIdFunc func(ctx context.Context, id int) (*domain.Show, error)
}

func (m *MockShowRepo) GetById(ctx context.Context, id int) (*domain.Show, error) {
	return m.GetByIdFunc(ctx, id)
}
