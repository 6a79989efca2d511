package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
)

type roleService struct {
	roles    repository.RoleRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	cfg      config.Config
	observer UseCaseObserver
}

func NewRoleService(
	roles repository.RoleRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	cfg config.Config,
	observers ...UseCaseObserver,
) RoleService {
	return &roleService{
		roles:    roles,
		tasks:    tasks,
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *roleService) Add(ctx context.Context, role *domain.Role, period string) (id string, err error) {
	fields := map[string]any{"type": role.Type, "period": period}
	defer observeUseCase(ctx, s.observer, "role-add", time.Now().UTC(), fields, &err)

	r := role.Clone()
	if period != "" && !r.HasPeriod(period) {
		r.SetTarget(period, s.cfg.DefaultRoleTarget(r.Type, r.Group))
	}
	if !r.Exists() {
		return "", fmt.Errorf("%w: a role needs a target in at least one period", domain.ErrInvalidRole)
	}
	if err := r.Validate(s.cfg.RoleTypes); err != nil {
		return "", err
	}

	id = domain.NewRoleID()
	if err := s.roles.Put(ctx, id, &r); err != nil {
		return "", fmt.Errorf("creating role: %w", err)
	}
	fields["role"] = id
	return id, nil
}

func (s *roleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.Get(ctx, id)
}

func (s *roleService) List(ctx context.Context, period string) ([]RoleEntry, error) {
	all, err := s.roles.All(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]RoleEntry, 0, len(all))
	for _, id := range repository.SortRoleIDs(all) {
		r := all[id]
		if period != "" && !r.HasPeriod(period) {
			continue
		}
		entries = append(entries, RoleEntry{ID: id, Role: r})
	}
	return entries, nil
}

func (s *roleService) Update(ctx context.Context, id string, role *domain.Role) (err error) {
	defer observeUseCase(ctx, s.observer, "role-update", time.Now().UTC(), map[string]any{"role": id}, &err)

	if !role.Exists() {
		return fmt.Errorf("%w: a role needs a target in at least one period", domain.ErrInvalidRole)
	}
	if err := role.Validate(s.cfg.RoleTypes); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)

		current, err := txRoles.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Type != role.Type {
			tasks, err := repository.NewTaskRepo(tx).All(ctx)
			if err != nil {
				return err
			}
			refs := 0
			for _, t := range tasks {
				if t.References(id) {
					refs++
				}
			}
			if refs > 0 {
				return fmt.Errorf("%w: %q cannot change type from %s to %s while %d task(s) reference it",
					domain.ErrInvalidRole, current.Name, current.Type, role.Type, refs)
			}
		}
		return txRoles.Put(ctx, id, role)
	})
}

func (s *roleService) SetTarget(ctx context.Context, id, period string, value float64) (err error) {
	fields := map[string]any{"role": id, "period": period, "value": value}
	defer observeUseCase(ctx, s.observer, "role-set-target", time.Now().UTC(), fields, &err)

	if period == "" {
		return fmt.Errorf("%w: period is required", domain.ErrInvalidRole)
	}
	if value < 0 {
		return fmt.Errorf("%w: negative target %v", domain.ErrInvalidRole, value)
	}
	r, err := s.roles.Get(ctx, id)
	if err != nil {
		return err
	}
	if v, ok := r.TargetFor(period); ok && v == value {
		return nil
	}
	r.SetTarget(period, value)
	return s.roles.Put(ctx, id, r)
}

func (s *roleService) Delete(ctx context.Context, id, period string) (deleted bool, err error) {
	fields := map[string]any{"role": id, "period": period}
	defer observeUseCase(ctx, s.observer, "role-delete", time.Now().UTC(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)
		txTasks := repository.NewTaskRepo(tx)

		r, err := txRoles.Get(ctx, id)
		if err != nil {
			return err
		}

		tasks, err := txTasks.All(ctx)
		if err != nil {
			return err
		}
		inUse := 0
		for _, t := range tasks {
			if (period == "" || t.Period == period) && t.References(id) {
				inUse++
			}
		}
		if inUse > 0 {
			fields["tasks"] = inUse
			return fmt.Errorf("deleting role %q: %w (%d tasks)", r.Name, domain.ErrRoleInUse, inUse)
		}

		if period != "" && !r.HasPeriod(period) {
			return fmt.Errorf("role %q in %q: %w", r.Name, period, domain.ErrUnknownPeriod)
		}
		if period == "" || r.RemovePeriod(period) {
			deleted = true
			return txRoles.Delete(ctx, id)
		}
		return txRoles.Put(ctx, id, r)
	})
	if err != nil {
		return false, err
	}
	fields["deleted"] = deleted
	return deleted, nil
}
