package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

type graphSnapshotRepo struct {
	db *sqlx.DB
}

// NewGraphSnapshotRepo creates a new PostgreSQL-backed GraphSnapshotRepository.
func NewGraphSnapshotRepo(db *sqlx.DB) port.GraphSnapshotRepository {
	return &graphSnapshotRepo{db: db}
}

// snapshotRow mirrors the graph_snapshots table. Nodes, edges, metadata, and
// summaries are stored as JSONB so snapshots round-trip without schema churn
// when the graph model grows.
type snapshotRow struct {
	ID           uuid.UUID       `db:"id"`
	DocumentName string          `db:"document_name"`
	Nodes        json.RawMessage `db:"nodes"`
	Edges        json.RawMessage `db:"edges"`
	Metadata     json.RawMessage `db:"metadata"`
	Summaries    json.RawMessage `db:"summaries"`
	CreatedAt    time.Time       `db:"created_at"`
}

const insertSnapshotQuery = `INSERT INTO graph_snapshots
	(id, document_name, nodes, edges, metadata, summaries, created_at)
VALUES (:id, :document_name, :nodes, :edges, :metadata, :summaries, :created_at)`

const selectSnapshotQuery = `SELECT id, document_name, nodes, edges, metadata, summaries, created_at
FROM graph_snapshots WHERE id = $1`

const listSnapshotsQuery = `SELECT id, document_name, nodes, edges, metadata, summaries, created_at
FROM graph_snapshots ORDER BY created_at DESC LIMIT $1`

func (r *graphSnapshotRepo) Save(ctx context.Context, snapshot *port.GraphSnapshot) error {
	row, err := toRow(snapshot)
	if err != nil {
		return fmt.Errorf("graphSnapshotRepo.Save: %w", err)
	}
	if _, err := r.db.NamedExecContext(ctx, insertSnapshotQuery, row); err != nil {
		return fmt.Errorf("graphSnapshotRepo.Save: %w", err)
	}
	return nil
}

func (r *graphSnapshotRepo) FindByID(ctx context.Context, id uuid.UUID) (*port.GraphSnapshot, error) {
	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, selectSnapshotQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("graphSnapshotRepo.FindByID %s: %w", id, domain.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("graphSnapshotRepo.FindByID: %w", err)
	}
	return fromRow(&row)
}

func (r *graphSnapshotRepo) List(ctx context.Context, limit int) ([]port.GraphSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, listSnapshotsQuery, limit); err != nil {
		return nil, fmt.Errorf("graphSnapshotRepo.List: %w", err)
	}
	snapshots := make([]port.GraphSnapshot, 0, len(rows))
	for i := range rows {
		snapshot, err := fromRow(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("graphSnapshotRepo.List: %w", err)
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, nil
}

func (r *graphSnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM graph_snapshots WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("graphSnapshotRepo.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("graphSnapshotRepo.Delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("graphSnapshotRepo.Delete %s: %w", id, domain.ErrSnapshotNotFound)
	}
	return nil
}

func toRow(snapshot *port.GraphSnapshot) (*snapshotRow, error) {
	nodes, err := json.Marshal(snapshot.Graph.Nodes)
	if err != nil {
		return nil, fmt.Errorf("marshal nodes: %w", err)
	}
	edges, err := json.Marshal(snapshot.Graph.Edges)
	if err != nil {
		return nil, fmt.Errorf("marshal edges: %w", err)
	}
	metadata, err := json.Marshal(snapshot.Graph.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	summaries, err := json.Marshal(snapshot.Summaries)
	if err != nil {
		return nil, fmt.Errorf("marshal summaries: %w", err)
	}
	return &snapshotRow{
		ID:           snapshot.ID,
		DocumentName: snapshot.DocumentName,
		Nodes:        nodes,
		Edges:        edges,
		Metadata:     metadata,
		Summaries:    summaries,
		CreatedAt:    snapshot.CreatedAt,
	}, nil
}

func fromRow(row *snapshotRow) (*port.GraphSnapshot, error) {
	snapshot := &port.GraphSnapshot{
		ID:           row.ID,
		DocumentName: row.DocumentName,
		CreatedAt:    row.CreatedAt,
	}
	if err := json.Unmarshal(row.Nodes, &snapshot.Graph.Nodes); err != nil {
		return nil, fmt.Errorf("unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(row.Edges, &snapshot.Graph.Edges); err != nil {
		return nil, fmt.Errorf("unmarshal edges: %w", err)
	}
	if err := json.Unmarshal(row.Metadata, &snapshot.Graph.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal(row.Summaries, &snapshot.Summaries); err != nil {
		return nil, fmt.Errorf("unmarshal summaries: %w", err)
	}
	return snapshot, nil
}
