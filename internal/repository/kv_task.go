package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/kvstore"
)

// KVTaskRepo implements TaskRepo on a kvstore.Store.
type KVTaskRepo struct {
	kv kvstore.Store
}

// NewTaskRepo creates a KVTaskRepo over conn.
func NewTaskRepo(conn db.DBTX) *KVTaskRepo {
	return &KVTaskRepo{kv: kvstore.New(conn)}
}

func (r *KVTaskRepo) All(ctx context.Context) (map[int]domain.Task, error) {
	entries, err := r.kv.Scan(ctx, taskSigil)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks := make(map[int]domain.Task, len(entries))
	for _, e := range entries {
		id, ok := parseTaskKey(e.Key)
		if !ok {
			continue
		}
		var task domain.Task
		if err := decode("task", e.Key, e.Value, &task); err != nil {
			return nil, err
		}
		tasks[id] = task
	}
	return tasks, nil
}

func (r *KVTaskRepo) ListIDs(ctx context.Context) ([]int, error) {
	entries, err := r.kv.Scan(ctx, taskSigil)
	if err != nil {
		return nil, fmt.Errorf("listing task ids: %w", err)
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		if id, ok := parseTaskKey(e.Key); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *KVTaskRepo) Get(ctx context.Context, id int) (*domain.Task, error) {
	raw, ok, err := r.kv.Get(ctx, taskKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	var task domain.Task
	if err := decode("task", taskKey(id), raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *KVTaskRepo) Put(ctx context.Context, id int, t *domain.Task) error {
	if id < 0 {
		return fmt.Errorf("writing task: negative id %d", id)
	}
	raw, err := encode("task", t)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, taskKey(id), raw)
}

func (r *KVTaskRepo) Delete(ctx context.Context, id int) error {
	return r.kv.Delete(ctx, taskKey(id))
}

func (r *KVTaskRepo) Create(ctx context.Context, t *domain.Task) (int, error) {
	ids, err := r.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	next := 1
	if len(ids) > 0 && ids[len(ids)-1]+1 > next {
		next = ids[len(ids)-1] + 1
	}
	if err := r.Put(ctx, next, t); err != nil {
		return 0, err
	}
	return next, nil
}
