package service

import (
	"database/sql"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/repository"
)

// Services bundles every use case over one database.
type Services struct {
	Roles    RoleService
	Tasks    TaskService
	Periods  PeriodService
	Transfer TransferService
}

// New wires all services to database using dialect d.
func New(database *sql.DB, d db.Dialect, cfg config.Config, observers ...UseCaseObserver) *Services {
	return NewWithUoW(db.Bind(database, d), db.NewUnitOfWork(database, d), cfg, observers...)
}

// NewWithUoW wires all services to conn for reads and uow for
// transactional writes.
func NewWithUoW(conn db.DBTX, uow db.UnitOfWork, cfg config.Config, observers ...UseCaseObserver) *Services {
	obs := NewMultiUseCaseObserver(observers...)
	roles := repository.NewRoleRepo(conn)
	tasks := repository.NewTaskRepo(conn)
	return &Services{
		Roles:    NewRoleService(roles, tasks, uow, cfg, obs),
		Tasks:    NewTaskService(roles, tasks, cfg, obs),
		Periods:  NewPeriodService(roles, uow, cfg, obs),
		Transfer: NewTransferService(repository.NewSnapshotRepo(conn), uow, cfg, obs),
	}
}
