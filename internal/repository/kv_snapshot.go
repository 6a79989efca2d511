package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/kvstore"
)

// KVSnapshotRepo implements SnapshotRepo over the role and task families.
type KVSnapshotRepo struct {
	kv    kvstore.Store
	roles *KVRoleRepo
	tasks *KVTaskRepo
}

// NewSnapshotRepo creates a KVSnapshotRepo over conn.
func NewSnapshotRepo(conn db.DBTX) *KVSnapshotRepo {
	return &KVSnapshotRepo{
		kv:    kvstore.New(conn),
		roles: NewRoleRepo(conn),
		tasks: NewTaskRepo(conn),
	}
}

func (r *KVSnapshotRepo) ExportAll(ctx context.Context) (*domain.Snapshot, error) {
	roles, err := r.roles.All(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := r.tasks.All(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Roles: roles, Tasks: tasks}, nil
}

func (r *KVSnapshotRepo) ReplaceAll(ctx context.Context, s *domain.Snapshot) error {
	if err := r.kv.Clear(ctx); err != nil {
		return err
	}
	for id, role := range s.Roles {
		if err := r.roles.Put(ctx, id, &role); err != nil {
			return fmt.Errorf("restoring role %q: %w", id, err)
		}
	}
	for _, id := range s.TaskIDs() {
		task := s.Tasks[id]
		if err := r.tasks.Put(ctx, id, &task); err != nil {
			return fmt.Errorf("restoring task %d: %w", id, err)
		}
	}
	return nil
}

func (r *KVSnapshotRepo) CompactTaskIDs(ctx context.Context) (map[int]int, error) {
	ids, err := r.tasks.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	moved := make(map[int]int)
	// Ids are ascending and distinct, so ids[i] >= i and the target slot
	// is never occupied by a task that has not been moved yet.
	for newID, oldID := range ids {
		if newID == oldID {
			continue
		}
		task, err := r.tasks.Get(ctx, oldID)
		if err != nil {
			return nil, err
		}
		if err := r.tasks.Put(ctx, newID, task); err != nil {
			return nil, err
		}
		if err := r.tasks.Delete(ctx, oldID); err != nil {
			return nil, err
		}
		moved[oldID] = newID
	}
	return moved, nil
}
