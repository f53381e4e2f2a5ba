package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// MockGraphSnapshotRepo is a mock implementation of port.GraphSnapshotRepository.
type MockGraphSnapshotRepo struct {
	mock.Mock
}

func (m *MockGraphSnapshotRepo) Save(ctx context.Context, snapshot *port.GraphSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockGraphSnapshotRepo) FindByID(ctx context.Context, id uuid.UUID) (*port.GraphSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.GraphSnapshot), args.Error(1)
}

func (m *MockGraphSnapshotRepo) List(ctx context.Context, limit int) ([]port.GraphSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.GraphSnapshot), args.Error(1)
}

func (m *MockGraphSnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
