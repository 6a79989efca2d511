package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
)

type taskService struct {
	roles    repository.RoleRepo
	tasks    repository.TaskRepo
	cfg      config.Config
	observer UseCaseObserver
}

func NewTaskService(
	roles repository.RoleRepo,
	tasks repository.TaskRepo,
	cfg config.Config,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		roles:    roles,
		tasks:    tasks,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Draft(ctx context.Context, period, roleID, otherRoleID string) (*domain.Task, error) {
	role, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}
	other, err := s.roles.Get(ctx, otherRoleID)
	if err != nil {
		return nil, err
	}
	if role.Type == other.Type {
		return nil, fmt.Errorf("%w: both roles are of type %q", domain.ErrInvalidTask, role.Type)
	}
	return &domain.Task{
		Roles:  map[string]string{role.Type: roleID, other.Type: otherRoleID},
		Period: period,
		Value:  s.cfg.DefaultTaskValue(other.Type, other.Group),
	}, nil
}

func (s *taskService) Add(ctx context.Context, t *domain.Task) (id int, err error) {
	fields := map[string]any{"period": t.Period, "value": t.Value}
	defer observeUseCase(ctx, s.observer, "task-add", time.Now().UTC(), fields, &err)

	if err := s.validate(t); err != nil {
		return 0, err
	}
	task := t.Clone()
	id, err = s.tasks.Create(ctx, &task)
	if err != nil {
		return 0, fmt.Errorf("creating task: %w", err)
	}
	fields["task"] = id
	return id, nil
}

func (s *taskService) validate(t *domain.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if len(s.cfg.RoleTypes) == 0 {
		return nil
	}
	for _, typ := range t.RoleTypes() {
		known := false
		for _, allowed := range s.cfg.RoleTypes {
			if typ == allowed {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: unknown role type %q", domain.ErrInvalidTask, typ)
		}
	}
	return nil
}

func (s *taskService) Get(ctx context.Context, id int) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

func (s *taskService) List(ctx context.Context, period string) ([]TaskEntry, error) {
	all, err := s.tasks.All(ctx)
	if err != nil {
		return nil, err
	}
	snap := &domain.Snapshot{Tasks: all}
	entries := make([]TaskEntry, 0, len(all))
	for _, id := range snap.TaskIDs() {
		t := all[id]
		if period != "" && t.Period != period {
			continue
		}
		entries = append(entries, TaskEntry{ID: id, Task: t})
	}
	return entries, nil
}

func (s *taskService) Update(ctx context.Context, id int, t *domain.Task) (changed bool, err error) {
	fields := map[string]any{"task": id}
	defer observeUseCase(ctx, s.observer, "task-update", time.Now().UTC(), fields, &err)

	if err := s.validate(t); err != nil {
		return false, err
	}
	current, err := s.tasks.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if current.Equal(t) {
		fields["changed"] = false
		return false, nil
	}
	if err := s.checkAxes(ctx, id, current, t); err != nil {
		return false, err
	}
	if err := s.tasks.Put(ctx, id, t); err != nil {
		return false, err
	}
	fields["changed"] = true
	return true, nil
}

// checkAxes requires every role on an axis to be of that axis's type. A
// reference that no longer resolves is kept when the edit leaves it alone.
func (s *taskService) checkAxes(ctx context.Context, id int, current, t *domain.Task) error {
	for _, typ := range t.RoleTypes() {
		roleID := t.Roles[typ]
		r, err := s.roles.Get(ctx, roleID)
		if errors.Is(err, repository.ErrNotFound) {
			if prev, ok := current.RoleFor(typ); ok && prev == roleID {
				continue
			}
			return fmt.Errorf("task %d %s axis: %w", id, typ, err)
		}
		if err != nil {
			return err
		}
		if r.Type != typ {
			return fmt.Errorf("task %d %s axis onto %q (%s): %w", id, typ, r.Name, r.Type, domain.ErrCrossTypeMove)
		}
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id int) (err error) {
	defer observeUseCase(ctx, s.observer, "task-delete", time.Now().UTC(), map[string]any{"task": id}, &err)
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Move(ctx context.Context, id int, roleType, newRoleID string) (moved bool, err error) {
	fields := map[string]any{"task": id, "type": roleType, "to": newRoleID}
	defer observeUseCase(ctx, s.observer, "task-move", time.Now().UTC(), fields, &err)

	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return false, err
	}
	current, ok := t.RoleFor(roleType)
	if !ok {
		return false, fmt.Errorf("task %d has no %q role: %w", id, roleType, domain.ErrCrossTypeMove)
	}
	target, err := s.roles.Get(ctx, newRoleID)
	if err != nil {
		return false, err
	}
	if target.Type != roleType {
		return false, fmt.Errorf("moving task %d onto %q (%s): %w", id, target.Name, target.Type, domain.ErrCrossTypeMove)
	}
	if current == newRoleID {
		return false, nil
	}
	fields["from"] = current
	t.Roles[roleType] = newRoleID
	if err := s.tasks.Put(ctx, id, t); err != nil {
		return false, err
	}
	return true, nil
}

func (s *taskService) SetValue(ctx context.Context, id int, value float64) (changed bool, err error) {
	fields := map[string]any{"task": id, "value": value}
	defer observeUseCase(ctx, s.observer, "task-set-value", time.Now().UTC(), fields, &err)

	if value < 0 {
		return false, fmt.Errorf("%w: negative value %v", domain.ErrInvalidTask, value)
	}
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if t.Value == value {
		return false, nil
	}
	t.Value = value
	if err := s.tasks.Put(ctx, id, t); err != nil {
		return false, err
	}
	return true, nil
}

func (s *taskService) LoadFor(ctx context.Context, roleID, period string) (domain.Load, error) {
	r, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return domain.Load{}, err
	}
	all, err := s.tasks.All(ctx)
	if err != nil {
		return domain.Load{}, err
	}
	tasks := make([]domain.Task, 0, len(all))
	for _, t := range all {
		tasks = append(tasks, t)
	}
	return domain.ComputeLoad(roleID, r, period, tasks), nil
}
