package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockTaskScheduler struct {
	mock.Mock
}

func (m *MockTaskScheduler) Schedule(ctx context.Context, name string, data any, delay time.Duration) error {
	args := m.Called(ctx, name, data, delay)
	return args.Error(0)
}
