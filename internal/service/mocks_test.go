package service

import (
	"context"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProgressStore mocks the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Load(ctx context.Context, folder string) domain.ProgressMap {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return domain.ProgressMap{}
	}
	return args.Get(0).(domain.ProgressMap)
}

func (m *MockProgressStore) Save(ctx context.Context, folder string, progress domain.ProgressMap) error {
	args := m.Called(ctx, folder, progress)
	return args.Error(0)
}
