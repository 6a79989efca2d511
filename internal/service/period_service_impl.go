package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
)

// periodService applies period transitions as bulk rewrites of every role
// and task. Each transition is one transaction.
type periodService struct {
	roles    repository.RoleRepo
	uow      db.UnitOfWork
	cfg      config.Config
	observer UseCaseObserver
}

func NewPeriodService(
	roles repository.RoleRepo,
	uow db.UnitOfWork,
	cfg config.Config,
	observers ...UseCaseObserver,
) PeriodService {
	return &periodService{
		roles:    roles,
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *periodService) List(ctx context.Context) ([]string, error) {
	roles, err := s.roles.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Periods(roles), nil
}

func checkPeriodName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("period name is required")
	}
	return nil
}

func (s *periodService) Rename(ctx context.Context, oldName, newName string) (err error) {
	fields := map[string]any{"from": oldName, "to": newName}
	defer observeUseCase(ctx, s.observer, "period-rename", time.Now().UTC(), fields, &err)

	if err := checkPeriodName(newName); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)
		txTasks := repository.NewTaskRepo(tx)

		roles, err := txRoles.All(ctx)
		if err != nil {
			return err
		}
		periods := domain.Periods(roles)
		if domain.HasPeriodName(periods, newName) {
			return fmt.Errorf("renaming %q to %q: %w", oldName, newName, domain.ErrDuplicatePeriod)
		}

		renamed := 0
		for id, r := range roles {
			v, ok := r.TargetFor(oldName)
			if !ok {
				continue
			}
			r.RemovePeriod(oldName)
			r.SetTarget(newName, v)
			if err := txRoles.Put(ctx, id, &r); err != nil {
				return err
			}
			renamed++
		}

		tasks, err := txTasks.All(ctx)
		if err != nil {
			return err
		}
		moved := 0
		for id, t := range tasks {
			if t.Period != oldName {
				continue
			}
			t.Period = newName
			if err := txTasks.Put(ctx, id, &t); err != nil {
				return err
			}
			moved++
		}

		if renamed == 0 && moved == 0 && !domain.HasPeriodName(periods, oldName) {
			return fmt.Errorf("renaming %q: %w", oldName, domain.ErrUnknownPeriod)
		}
		fields["roles"] = renamed
		fields["tasks"] = moved
		return nil
	})
}

func (s *periodService) Create(ctx context.Context, name string, roleIDs ...string) (err error) {
	fields := map[string]any{"period": name, "roles": len(roleIDs)}
	defer observeUseCase(ctx, s.observer, "period-create", time.Now().UTC(), fields, &err)

	if err := checkPeriodName(name); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)

		roles, err := txRoles.All(ctx)
		if err != nil {
			return err
		}
		if domain.HasPeriodName(domain.Periods(roles), name) {
			return fmt.Errorf("creating %q: %w", name, domain.ErrDuplicatePeriod)
		}
		for _, id := range roleIDs {
			r, ok := roles[id]
			if !ok {
				return fmt.Errorf("role %q: %w", id, repository.ErrNotFound)
			}
			r.SetTarget(name, s.cfg.DefaultRoleTarget(r.Type, r.Group))
			if err := txRoles.Put(ctx, id, &r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *periodService) Clone(ctx context.Context, from, to string) (result *CloneResult, err error) {
	fields := map[string]any{"from": from, "to": to}
	defer observeUseCase(ctx, s.observer, "period-clone", time.Now().UTC(), fields, &err)

	if err := checkPeriodName(to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("cloning %q onto itself", from)
	}

	result = &CloneResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)
		txTasks := repository.NewTaskRepo(tx)

		roles, err := txRoles.All(ctx)
		if err != nil {
			return err
		}
		if !domain.HasPeriodName(domain.Periods(roles), from) {
			return fmt.Errorf("cloning %q: %w", from, domain.ErrUnknownPeriod)
		}

		for _, id := range repository.SortRoleIDs(roles) {
			r := roles[id]
			v, hasFrom := r.TargetFor(from)
			switch {
			case hasFrom:
				r.SetTarget(to, v)
				result.Roles++
			case r.HasPeriod(to):
				r.RemovePeriod(to)
			default:
				continue
			}
			if !r.Exists() {
				if err := txRoles.Delete(ctx, id); err != nil {
					return err
				}
				continue
			}
			if err := txRoles.Put(ctx, id, &r); err != nil {
				return err
			}
		}

		ids, err := txTasks.ListIDs(ctx)
		if err != nil {
			return err
		}
		tasks, err := txTasks.All(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if tasks[id].Period != to {
				continue
			}
			if err := txTasks.Delete(ctx, id); err != nil {
				return err
			}
			result.Replaced++
		}
		for _, id := range ids {
			src := tasks[id]
			if src.Period != from {
				continue
			}
			dup := src.Clone()
			dup.Period = to
			if _, err := txTasks.Create(ctx, &dup); err != nil {
				return fmt.Errorf("copying task %d: %w", id, err)
			}
			result.Tasks++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["roles"] = result.Roles
	fields["tasks"] = result.Tasks
	fields["replaced"] = result.Replaced
	return result, nil
}

func (s *periodService) Delete(ctx context.Context, period string) (result *PeriodDeleteResult, err error) {
	fields := map[string]any{"period": period}
	defer observeUseCase(ctx, s.observer, "period-delete", time.Now().UTC(), fields, &err)

	result = &PeriodDeleteResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewRoleRepo(tx)
		txTasks := repository.NewTaskRepo(tx)

		roles, err := txRoles.All(ctx)
		if err != nil {
			return err
		}
		tasks, err := txTasks.All(ctx)
		if err != nil {
			return err
		}

		for _, id := range repository.SortRoleIDs(roles) {
			r := roles[id]
			if !r.HasPeriod(period) {
				continue
			}
			result.Roles++
			if r.RemovePeriod(period) {
				if err := txRoles.Delete(ctx, id); err != nil {
					return err
				}
				result.DeletedRoles = append(result.DeletedRoles, id)
				continue
			}
			if err := txRoles.Put(ctx, id, &r); err != nil {
				return err
			}
		}

		for _, id := range (&domain.Snapshot{Tasks: tasks}).TaskIDs() {
			if tasks[id].Period != period {
				continue
			}
			if err := txTasks.Delete(ctx, id); err != nil {
				return err
			}
			result.Tasks++
		}

		if result.Roles == 0 && result.Tasks == 0 {
			return fmt.Errorf("deleting %q: %w", period, domain.ErrUnknownPeriod)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["roles"] = result.Roles
	fields["deleted_roles"] = len(result.DeletedRoles)
	fields["tasks"] = result.Tasks
	return result, nil
}
