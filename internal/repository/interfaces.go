package repository

import (
	"context"

	"github.com/alexanderramin/loadboard/internal/domain"
)

// RoleRepo stores roles under the "#" key family.
type RoleRepo interface {
	// ListIDs returns role ids sorted by role name (case-insensitive,
	// locale-aware), ties broken by id.
	ListIDs(ctx context.Context) ([]string, error)
	All(ctx context.Context) (map[string]domain.Role, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	Put(ctx context.Context, id string, r *domain.Role) error
	Delete(ctx context.Context, id string) error
}

// TaskRepo stores tasks under the ":" key family.
type TaskRepo interface {
	// ListIDs returns task ids in ascending numeric order.
	ListIDs(ctx context.Context) ([]int, error)
	All(ctx context.Context) (map[int]domain.Task, error)
	Get(ctx context.Context, id int) (*domain.Task, error)
	Put(ctx context.Context, id int, t *domain.Task) error
	Delete(ctx context.Context, id int) error
	// Create stores t under max(0, ids...)+1 and returns the new id.
	// Not safe for concurrent callers outside a transaction.
	Create(ctx context.Context, t *domain.Task) (int, error)
}

// SnapshotRepo reads and replaces the whole board.
type SnapshotRepo interface {
	ExportAll(ctx context.Context) (*domain.Snapshot, error)
	// ReplaceAll clears the entire store, then writes every entity in s.
	ReplaceAll(ctx context.Context, s *domain.Snapshot) error
	// CompactTaskIDs renumbers tasks to 0..n-1 in id order and returns the
	// old-to-new mapping for every id that changed.
	CompactTaskIDs(ctx context.Context) (map[int]int, error)
}
