package service

import (
	"context"
	"io"

	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/importer"
)

// RoleEntry pairs a role with its id.
type RoleEntry struct {
	ID   string
	Role domain.Role
}

// TaskEntry pairs a task with its id.
type TaskEntry struct {
	ID   int
	Task domain.Task
}

type RoleService interface {
	// Add stores a new role under a fresh id. When period is set and the
	// role has no target there, the configured default target is used.
	Add(ctx context.Context, r *domain.Role, period string) (string, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	// List returns roles visible in period, sorted by name. An empty
	// period lists every role.
	List(ctx context.Context, period string) ([]RoleEntry, error)
	Update(ctx context.Context, id string, r *domain.Role) error
	SetTarget(ctx context.Context, id, period string, value float64) error
	// Delete removes the role from period, deleting it once no period is
	// left. An empty period removes the role from every period. Refused
	// with domain.ErrRoleInUse while tasks reference it there.
	Delete(ctx context.Context, id, period string) (deleted bool, err error)
}

type TaskService interface {
	// Draft prepares an unsaved task between two roles of different types
	// with the configured default value for the other role.
	Draft(ctx context.Context, period, roleID, otherRoleID string) (*domain.Task, error)
	Add(ctx context.Context, t *domain.Task) (int, error)
	Get(ctx context.Context, id int) (*domain.Task, error)
	List(ctx context.Context, period string) ([]TaskEntry, error)
	// Update overwrites the task. It reports false and writes nothing when
	// t equals the stored task.
	Update(ctx context.Context, id int, t *domain.Task) (bool, error)
	Delete(ctx context.Context, id int) error
	Move(ctx context.Context, id int, roleType, newRoleID string) (bool, error)
	SetValue(ctx context.Context, id int, value float64) (bool, error)
	LoadFor(ctx context.Context, roleID, period string) (domain.Load, error)
}

// CloneResult summarizes a period clone.
type CloneResult struct {
	Roles    int
	Tasks    int
	Replaced int
}

// PeriodDeleteResult summarizes a period delete.
type PeriodDeleteResult struct {
	Roles        int
	DeletedRoles []string
	Tasks        int
}

type PeriodService interface {
	List(ctx context.Context) ([]string, error)
	Rename(ctx context.Context, oldName, newName string) error
	// Create validates a new period name. It adds the period to each of
	// roleIDs with its default target; without roles the period lives
	// only in the caller's vocabulary until a role is added to it.
	Create(ctx context.Context, name string, roleIDs ...string) error
	Clone(ctx context.Context, from, to string) (*CloneResult, error)
	Delete(ctx context.Context, period string) (*PeriodDeleteResult, error)
}

// ExportResult summarizes an export.
type ExportResult struct {
	Roles int
	Tasks int
	// Renumbered maps old task ids to new ones for ids moved by compaction.
	Renumbered map[int]int
}

// ImportResult summarizes an import.
type ImportResult struct {
	Roles int
	Tasks int
	// Dangling lists, per task id, role ids that did not resolve.
	Dangling map[int][]string
	// Untargeted lists role ids left out because they had no target.
	Untargeted []string
}

type TransferService interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	// Export compacts task ids, then writes the whole board to w.
	Export(ctx context.Context, w io.Writer) (*ExportResult, error)
	// Import replaces the whole board with the snapshot read from r. The
	// replacement is one transaction.
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.SnapshotSchema) (*ImportResult, error)
	Compact(ctx context.Context) (map[int]int, error)
}
