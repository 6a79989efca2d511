package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/importer"
	"github.com/alexanderramin/loadboard/internal/repository"
)

type transferService struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	cfg       config.Config
	observer  UseCaseObserver
}

func NewTransferService(
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	cfg config.Config,
	observers ...UseCaseObserver,
) TransferService {
	return &transferService{
		snapshots: snapshots,
		uow:       uow,
		cfg:       cfg,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *transferService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return s.snapshots.ExportAll(ctx)
}

func (s *transferService) Export(ctx context.Context, w io.Writer) (result *ExportResult, err error) {
	fields := map[string]any{}
	defer observeUseCase(ctx, s.observer, "export", time.Now().UTC(), fields, &err)

	var snap *domain.Snapshot
	var moved map[int]int
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSnapshotRepo(tx)

		var err error
		moved, err = txSnapshots.CompactTaskIDs(ctx)
		if err != nil {
			return fmt.Errorf("compacting task ids: %w", err)
		}
		snap, err = txSnapshots.ExportAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := importer.EncodeSnapshot(&buf, snap); err != nil {
		return nil, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}

	result = &ExportResult{Roles: len(snap.Roles), Tasks: len(snap.Tasks), Renumbered: moved}
	fields["roles"] = result.Roles
	fields["tasks"] = result.Tasks
	fields["renumbered"] = len(moved)
	return result, nil
}

func (s *transferService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	schema, err := importer.LoadSnapshot(r)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

func (s *transferService) ImportSchema(ctx context.Context, schema *importer.SnapshotSchema) (result *ImportResult, err error) {
	fields := map[string]any{}
	defer observeUseCase(ctx, s.observer, "import", time.Now().UTC(), fields, &err)

	if errs := importer.ValidateSnapshot(schema, s.cfg.RoleTypes); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	snap, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSnapshotRepo(tx).ReplaceAll(ctx, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("replacing board: %w", err)
	}

	result = &ImportResult{
		Roles:      len(snap.Roles),
		Tasks:      len(snap.Tasks),
		Dangling:   snap.DanglingRefs(),
		Untargeted: importer.UntargetedRoles(schema),
	}
	fields["roles"] = result.Roles
	fields["tasks"] = result.Tasks
	fields["dangling"] = len(result.Dangling)
	fields["untargeted"] = len(result.Untargeted)
	return result, nil
}

func (s *transferService) Compact(ctx context.Context) (moved map[int]int, err error) {
	fields := map[string]any{}
	defer observeUseCase(ctx, s.observer, "compact", time.Now().UTC(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		moved, err = repository.NewSnapshotRepo(tx).CompactTaskIDs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["renumbered"] = len(moved)
	return moved, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
