package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// MockTestDrafter is a mock implementation of port.TestDrafter.
type MockTestDrafter struct {
	mock.Mock
}

func (m *MockTestDrafter) DraftTestCases(ctx context.Context, requirements []domain.DetectedRequirement) ([]domain.TestCaseDraft, error) {
	args := m.Called(ctx, requirements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TestCaseDraft), args.Error(1)
}
