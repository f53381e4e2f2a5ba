package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// GraphSnapshot is a persisted knowledge graph with its source document and
// the flattened per-requirement summaries used by chain-query fallbacks.
type GraphSnapshot struct {
	ID           uuid.UUID
	DocumentName string
	Graph        domain.KnowledgeGraph
	Summaries    []domain.RequirementSummary
	CreatedAt    time.Time
}

// GraphSnapshotRepository persists and retrieves immutable graph snapshots.
type GraphSnapshotRepository interface {
	Save(ctx context.Context, snapshot *GraphSnapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (*GraphSnapshot, error)
	List(ctx context.Context, limit int) ([]GraphSnapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
