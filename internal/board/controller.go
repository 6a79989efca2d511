// Package board is the interaction controller of the planning board. It
// turns user commands into store mutations and keeps the view model of the
// active period convergent with the store after every command.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
	"github.com/alexanderramin/loadboard/internal/service"
)

// Controller owns the board's view state: the active period, chip order,
// the drag session and buffered resize samples. It is not safe for
// concurrent use; feed it from one goroutine.
type Controller struct {
	svc    *service.Services
	cfg    config.Config
	logger *slog.Logger

	period string
	// extra holds periods created without roles. They are dropped once
	// the store knows them.
	extra    []string
	stored   []string
	order    map[rowRef][]int
	drag     *DragSession
	resizes  *resizeBuffer
	reported map[string]struct{}
	view     *View
}

// New builds a controller over svc and renders the first period.
func New(ctx context.Context, svc *service.Services, cfg config.Config, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		svc:      svc,
		cfg:      cfg,
		logger:   logger,
		order:    make(map[rowRef][]int),
		resizes:  newResizeBuffer(),
		reported: make(map[string]struct{}),
	}
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) View() *View {
	return c.view
}

func (c *Controller) Period() string {
	return c.period
}

// Drag returns a copy of the drag session, nil when idle.
func (c *Controller) Drag() *DragSession {
	return c.drag.clone()
}

func (c *Controller) Diagnostics() []Diagnostic {
	return c.view.Diagnostics
}

// PendingResizes is the number of tasks with a buffered width sample.
func (c *Controller) PendingResizes() int {
	return c.resizes.len()
}

// Apply runs one command and rebuilds the view when anything changed.
func (c *Controller) Apply(ctx context.Context, cmd Command) (Result, error) {
	c.logger.Debug("board command", "command", cmd.commandName(), "period", c.period)

	res, err := c.apply(ctx, cmd)
	if err != nil {
		if res.ViewChanged {
			if rerr := c.refresh(ctx); rerr != nil {
				c.logger.Error("refreshing board", "error", rerr)
			}
		}
		return res, err
	}
	if res.Changed || res.ViewChanged {
		if err := c.refresh(ctx); err != nil {
			return res, err
		}
		res.ViewChanged = true
	}
	return res, nil
}

// ApplyAll applies cmds in order and stops at the first error.
func (c *Controller) ApplyAll(ctx context.Context, cmds ...Command) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		res, err := c.Apply(ctx, cmd)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (c *Controller) apply(ctx context.Context, cmd Command) (Result, error) {
	switch cmd := cmd.(type) {
	case AddRole:
		period, err := c.writablePeriod()
		if err != nil && !cmd.Role.Exists() {
			return Result{}, err
		}
		id, err := c.svc.Roles.Add(ctx, &cmd.Role, period)
		if err != nil {
			return Result{}, err
		}
		return Result{Changed: true, RoleID: id}, nil

	case EditRole:
		if err := c.svc.Roles.Update(ctx, cmd.ID, &cmd.Role); err != nil {
			return Result{}, err
		}
		return Result{Changed: true, RoleID: cmd.ID}, nil

	case DeleteRole:
		return c.deleteRole(ctx, cmd.ID)

	case SetRoleTarget:
		period, err := c.writablePeriod()
		if err != nil {
			return Result{}, err
		}
		if err := c.svc.Roles.SetTarget(ctx, cmd.ID, period, cmd.Value); err != nil {
			return Result{}, err
		}
		return Result{Changed: true, RoleID: cmd.ID}, nil

	case AddTask:
		return c.addTask(ctx, cmd)

	case EditTask:
		changed, err := c.svc.Tasks.Update(ctx, cmd.ID, &cmd.Task)
		if err != nil {
			return Result{}, err
		}
		if changed && c.drag != nil && c.drag.TaskID == cmd.ID {
			c.drag = nil
		}
		return Result{Changed: changed, TaskID: cmd.ID}, nil

	case DeleteTask:
		if err := c.svc.Tasks.Delete(ctx, cmd.ID); err != nil {
			return Result{}, err
		}
		c.resizes.drop(cmd.ID)
		if c.drag != nil && c.drag.TaskID == cmd.ID {
			c.drag = nil
		}
		return Result{Changed: true, TaskID: cmd.ID}, nil

	case BeginDrag:
		return c.beginDrag(cmd)

	case DragOver:
		return c.dragOver(cmd), nil

	case DragLeave:
		if c.placeholderFor(cmd.RoleID) == nil {
			return Result{}, nil
		}
		c.drag.Placeholder = nil
		return Result{ViewChanged: true}, nil

	case Drop:
		return c.drop(ctx, cmd)

	case CancelDrag:
		if c.drag == nil {
			return Result{}, nil
		}
		c.drag = nil
		return Result{ViewChanged: true}, nil

	case ResizeSample:
		if cmd.Width <= 0 {
			return Result{}, nil
		}
		c.resizes.add(cmd)
		return Result{ViewChanged: true, TaskID: cmd.TaskID}, nil

	case FlushResizes:
		return c.flushResizes(ctx, cmd.Now)

	case SwitchPeriod:
		if !domain.HasPeriodName(c.view.Periods, cmd.Name) {
			return Result{}, fmt.Errorf("switching to %q: %w", cmd.Name, domain.ErrUnknownPeriod)
		}
		if cmd.Name == c.period {
			return Result{}, nil
		}
		c.period = cmd.Name
		c.drag = nil
		return Result{ViewChanged: true}, nil

	case RenamePeriod:
		return c.renamePeriod(ctx, cmd)

	case CreatePeriod:
		return c.createPeriod(ctx, cmd)

	case ClonePeriod:
		if _, err := c.svc.Periods.Clone(ctx, cmd.From, cmd.To); err != nil {
			return Result{}, err
		}
		c.period = cmd.To
		c.drag = nil
		return Result{Changed: true}, nil

	case DeletePeriod:
		return c.deletePeriod(ctx, cmd.Name)

	case Import:
		return c.importBoard(ctx, cmd)

	case Export:
		res, err := c.svc.Transfer.Export(ctx, cmd.Writer)
		if err != nil {
			return Result{}, err
		}
		c.renumber(res.Renumbered)
		return Result{Changed: len(res.Renumbered) > 0, Renumbered: res.Renumbered}, nil
	}
	return Result{}, fmt.Errorf("unsupported command %T", cmd)
}

func (c *Controller) deleteRole(ctx context.Context, id string) (Result, error) {
	deleted, err := c.svc.Roles.Delete(ctx, id, c.period)
	if err != nil {
		return Result{}, err
	}
	if c.drag != nil && (c.drag.SourceRoleID == id || c.placeholderFor(id) != nil) {
		c.drag = nil
	}
	if deleted {
		for ref := range c.order {
			if ref.roleID == id {
				delete(c.order, ref)
			}
		}
	}
	return Result{Changed: true, RoleID: id}, nil
}

func (c *Controller) addTask(ctx context.Context, cmd AddTask) (Result, error) {
	period, err := c.writablePeriod()
	if err != nil {
		return Result{}, err
	}
	task, err := c.svc.Tasks.Draft(ctx, period, cmd.RoleID, cmd.OtherRoleID)
	if err != nil {
		return Result{}, err
	}
	if cmd.Value != nil {
		task.Value = *cmd.Value
	}
	task.Comments = domain.OptionalStr(domain.StrValue(cmd.Comments))
	id, err := c.svc.Tasks.Add(ctx, task)
	if err != nil {
		return Result{}, err
	}
	return Result{Changed: true, TaskID: id, RoleID: cmd.RoleID}, nil
}

func (c *Controller) beginDrag(cmd BeginDrag) (Result, error) {
	card := c.view.Card(cmd.RoleID)
	if card == nil {
		return Result{}, fmt.Errorf("role %q is not on the board", cmd.RoleID)
	}
	ch, group, ok := card.Chip(cmd.TaskID)
	if !ok {
		return Result{}, fmt.Errorf("task %d is not on role %q", cmd.TaskID, cmd.RoleID)
	}
	c.drag = &DragSession{
		TaskID:       cmd.TaskID,
		RoleType:     card.Type,
		SourceRoleID: card.ID,
		Group:        group,
		Width:        ch.Width,
	}
	return Result{ViewChanged: true, TaskID: cmd.TaskID, RoleID: card.ID}, nil
}

func (c *Controller) dragOver(cmd DragOver) Result {
	d := c.drag
	if d == nil {
		return Result{}
	}
	card := c.view.Card(cmd.RoleID)
	if card == nil || card.Type != d.RoleType {
		return Result{}
	}
	s := placeholderSlot(card.Row(d.Group), d.TaskID, cmd.X)
	if s.keep {
		return Result{}
	}
	var next *Placeholder
	if !s.none {
		next = &Placeholder{RoleID: card.ID, Group: d.Group, Before: s.before}
	}
	if samePlaceholder(d.Placeholder, next) {
		return Result{}
	}
	d.Placeholder = next
	return Result{ViewChanged: true}
}

// drop moves the dragged task to the placeholder's role and row position.
// Without a placeholder on the target the drag just ends.
func (c *Controller) drop(ctx context.Context, cmd Drop) (Result, error) {
	d := c.drag
	if d == nil {
		return Result{}, nil
	}
	c.drag = nil
	ph := d.Placeholder
	if ph == nil || ph.RoleID != cmd.RoleID {
		return Result{ViewChanged: true}, nil
	}

	res := Result{ViewChanged: true, TaskID: d.TaskID, RoleID: ph.RoleID}
	if ph.RoleID != d.SourceRoleID {
		moved, err := c.svc.Tasks.Move(ctx, d.TaskID, d.RoleType, ph.RoleID)
		if err != nil {
			return res, err
		}
		res.Changed = moved
	}

	isDragged := func(id int) bool { return id == d.TaskID }
	src := rowRef{d.SourceRoleID, d.Group}
	c.order[src] = slices.DeleteFunc(slices.Clone(c.order[src]), isDragged)

	dst := rowRef{ph.RoleID, ph.Group}
	ids := slices.DeleteFunc(slices.Clone(c.order[dst]), isDragged)
	at := len(ids)
	if ph.Before != EndOfList {
		if i := slices.Index(ids, ph.Before); i >= 0 {
			at = i
		}
	}
	c.order[dst] = slices.Insert(ids, at, d.TaskID)
	return res, nil
}

func (c *Controller) flushResizes(ctx context.Context, now time.Time) (Result, error) {
	due := c.resizes.due(now, c.cfg.ResizeDebounce)
	if len(due) == 0 {
		return Result{}, nil
	}
	res := Result{ViewChanged: true}
	for _, s := range due {
		value := c.cfg.ValueToWidth.SizeToValue(s.Width)
		changed, err := c.svc.Tasks.SetValue(ctx, s.TaskID, value)
		if errors.Is(err, repository.ErrNotFound) {
			c.logger.Warn("dropping resize of missing task", "task", s.TaskID)
			continue
		}
		if err != nil {
			return res, err
		}
		if changed {
			res.Changed = true
			res.TaskID = s.TaskID
		}
	}
	return res, nil
}

func (c *Controller) renamePeriod(ctx context.Context, cmd RenamePeriod) (Result, error) {
	res := Result{ViewChanged: true}
	if err := c.checkNewPeriod(cmd.New); err != nil {
		return Result{}, fmt.Errorf("renaming %q to %q: %w", cmd.Old, cmd.New, err)
	}
	if i := slices.Index(c.extra, cmd.Old); i >= 0 {
		c.extra[i] = cmd.New
	} else {
		if err := c.svc.Periods.Rename(ctx, cmd.Old, cmd.New); err != nil {
			return Result{}, err
		}
		res.Changed = true
	}
	if c.period == cmd.Old {
		c.period = cmd.New
	}
	return res, nil
}

func (c *Controller) createPeriod(ctx context.Context, cmd CreatePeriod) (Result, error) {
	if err := c.checkNewPeriod(cmd.Name); err != nil {
		return Result{}, fmt.Errorf("creating %q: %w", cmd.Name, err)
	}
	if err := c.svc.Periods.Create(ctx, cmd.Name, cmd.RoleIDs...); err != nil {
		return Result{}, err
	}
	if len(cmd.RoleIDs) == 0 {
		c.extra = append(c.extra, cmd.Name)
	}
	c.period = cmd.Name
	c.drag = nil
	return Result{Changed: len(cmd.RoleIDs) > 0, ViewChanged: true}, nil
}

// writablePeriod is the active period, unless the board shows only the
// placeholder name used while no period exists.
func (c *Controller) writablePeriod() (string, error) {
	if slices.Contains(c.stored, c.period) || slices.Contains(c.extra, c.period) {
		return c.period, nil
	}
	return "", fmt.Errorf("%q: create a period first: %w", c.period, domain.ErrUnknownPeriod)
}

func (c *Controller) checkNewPeriod(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("period name is required")
	}
	if slices.Contains(c.stored, name) || slices.Contains(c.extra, name) {
		return domain.ErrDuplicatePeriod
	}
	return nil
}

func (c *Controller) deletePeriod(ctx context.Context, name string) (Result, error) {
	res := Result{ViewChanged: true}
	if i := slices.Index(c.extra, name); i >= 0 {
		c.extra = slices.Delete(c.extra, i, i+1)
	} else {
		if _, err := c.svc.Periods.Delete(ctx, name); err != nil {
			return Result{}, err
		}
		res.Changed = true
	}
	if c.period == name {
		c.period = ""
		c.drag = nil
	}
	return res, nil
}

// importBoard replaces the store and drops every piece of view state.
func (c *Controller) importBoard(ctx context.Context, cmd Import) (Result, error) {
	res, err := c.svc.Transfer.Import(ctx, cmd.Reader)
	if err != nil {
		return Result{}, err
	}
	c.period = ""
	c.extra = nil
	c.drag = nil
	clear(c.order)
	c.resizes.reset()
	clear(c.reported)

	if len(res.Untargeted) > 0 {
		c.logger.Warn("imported roles without targets were skipped", "roles", res.Untargeted)
	}
	if len(res.Dangling) > 0 {
		ids := make([]int, 0, len(res.Dangling))
		for id := range res.Dangling {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		c.logger.Warn("imported tasks reference unknown roles", "tasks", ids)
	}
	return Result{Changed: true, Dangling: res.Dangling}, nil
}

// renumber rewrites view-bound task ids after compaction.
func (c *Controller) renumber(ids map[int]int) {
	if len(ids) == 0 {
		return
	}
	for _, list := range c.order {
		for i, id := range list {
			if n, ok := ids[id]; ok {
				list[i] = n
			}
		}
	}
	if d := c.drag; d != nil {
		if n, ok := ids[d.TaskID]; ok {
			d.TaskID = n
		}
		if ph := d.Placeholder; ph != nil && ph.Before != EndOfList {
			if n, ok := ids[ph.Before]; ok {
				ph.Before = n
			}
		}
	}
	c.resizes.renumber(ids)
}

// refresh reloads the period list, repairs the active period and rebuilds
// the view.
func (c *Controller) refresh(ctx context.Context) error {
	stored, err := c.svc.Periods.List(ctx)
	if err != nil {
		return fmt.Errorf("listing periods: %w", err)
	}
	c.stored = stored
	c.extra = slices.DeleteFunc(c.extra, func(p string) bool { return slices.Contains(stored, p) })

	periods := append(slices.Clone(stored), c.extra...)
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	if len(periods) == 0 {
		periods = []string{c.cfg.UnknownPeriodName}
	}
	if !slices.Contains(periods, c.period) {
		c.period = periods[0]
		c.drag = nil
	}

	v, err := c.build(ctx, periods)
	if err != nil {
		return err
	}
	c.view = v
	return nil
}

// report logs each diagnostic once.
func (c *Controller) report(diags []Diagnostic) {
	for _, d := range diags {
		if _, ok := c.reported[d.Message]; ok {
			continue
		}
		c.reported[d.Message] = struct{}{}
		c.logger.Warn("board diagnostic", "task", d.TaskID, "period", c.period, "detail", d.Message)
	}
}
