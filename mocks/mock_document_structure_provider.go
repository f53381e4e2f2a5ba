package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// MockDocumentStructureProvider is a mock implementation of port.DocumentStructureProvider.
type MockDocumentStructureProvider struct {
	mock.Mock
}

func (m *MockDocumentStructureProvider) ExtractStructure(ctx context.Context, input port.StructureInput) (*domain.DocumentStructure, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStructure), args.Error(1)
}
