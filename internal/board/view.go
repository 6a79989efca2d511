package board

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/service"
)

// View is the rendered board for the active period.
type View struct {
	Period  string
	Periods []string
	// Containers hold role cards by type, then by group. Types follow the
	// configured order; ungrouped cards come before grouped ones.
	Containers  []Container
	Drag        *DragSession
	Diagnostics []Diagnostic
}

type Container struct {
	Type  string
	Group string
	Roles []*RoleCard
}

// RoleCard is one role with its load and chip rows.
type RoleCard struct {
	ID          string
	Type        string
	Name        string
	DisplayName string
	Group       string
	Title       string
	Load        domain.Load
	Deviation   string
	Hint        string
	// Rows split the card's chips by the group of the task's other roles.
	Rows []Row
}

type Row struct {
	Group string
	Chips []Chip
}

// Chip is one task on a role card, or the drop placeholder.
type Chip struct {
	TaskID int
	Value  float64
	Label  string
	Info   string
	Title  string
	Left   int
	Width  int

	Dragged     bool
	Placeholder bool
	// Resizing is set while a width sample waits for the debounce window.
	Resizing bool
	// Dangling is set when the task names a role that does not exist.
	Dangling bool
}

// Right is the x coordinate just past the chip.
func (c Chip) Right() int {
	return c.Left + c.Width
}

// Diagnostic reports a task the board cannot fully render.
type Diagnostic struct {
	TaskID  int
	Missing []string
	Message string
}

// Card returns the card of role id, or nil when it is not on the board.
func (v *View) Card(id string) *RoleCard {
	for _, c := range v.Containers {
		for _, r := range c.Roles {
			if r.ID == id {
				return r
			}
		}
	}
	return nil
}

// Cards returns every card in container order.
func (v *View) Cards() []*RoleCard {
	var out []*RoleCard
	for _, c := range v.Containers {
		out = append(out, c.Roles...)
	}
	return out
}

// Row returns the chips of the given row, nil when the card has none.
func (c *RoleCard) Row(group string) []Chip {
	for _, r := range c.Rows {
		if r.Group == group {
			return r.Chips
		}
	}
	return nil
}

// Chip finds the task's chip on the card.
func (c *RoleCard) Chip(taskID int) (Chip, string, bool) {
	for _, r := range c.Rows {
		for _, ch := range r.Chips {
			if ch.TaskID == taskID && !ch.Placeholder {
				return ch, r.Group, true
			}
		}
	}
	return Chip{}, "", false
}

// TaskIDs lists the card's tasks in display order.
func (c *RoleCard) TaskIDs() []int {
	var ids []int
	for _, r := range c.Rows {
		for _, ch := range r.Chips {
			if !ch.Placeholder {
				ids = append(ids, ch.TaskID)
			}
		}
	}
	return ids
}

type rowRef struct {
	roleID string
	group  string
}

// build derives the view for the active period from the store, keeping the
// controller's chip order and drag state.
func (c *Controller) build(ctx context.Context, periods []string) (*View, error) {
	all, err := c.svc.Roles.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	tasks, err := c.svc.Tasks.List(ctx, c.period)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	roles := make(map[string]domain.Role, len(all))
	for _, e := range all {
		roles[e.ID] = e.Role
	}
	lookup := func(id string) (domain.Role, bool) {
		r, ok := roles[id]
		return r, ok
	}
	plain := make([]domain.Task, len(tasks))
	for i, e := range tasks {
		plain[i] = e.Task
	}

	v := &View{Period: c.period, Periods: periods, Drag: c.drag.clone()}
	containers := make(map[[2]string]*Container)
	for _, e := range all {
		if !e.Role.HasPeriod(c.period) {
			continue
		}
		role := e.Role
		load := domain.ComputeLoad(e.ID, &role, c.period, plain)
		card := &RoleCard{
			ID:          e.ID,
			Type:        role.Type,
			Name:        role.Name,
			DisplayName: role.DisplayName(),
			Group:       role.GroupName(),
			Title:       domain.RoleTitle(&role),
			Load:        load,
			Deviation:   load.DeviationText(),
			Hint:        c.cfg.CalculationHint(role.Type, load.Target),
		}
		key := [2]string{role.Type, card.Group}
		ct, ok := containers[key]
		if !ok {
			ct = &Container{Type: role.Type, Group: card.Group}
			containers[key] = ct
		}
		ct.Roles = append(ct.Roles, card)
	}
	v.Containers = c.orderContainers(containers)

	shown := make(map[int]bool, len(tasks))
	for _, card := range v.Cards() {
		rows := make(map[string][]service.TaskEntry)
		for _, e := range tasks {
			if e.Task.Roles[card.Type] != card.ID {
				continue
			}
			g := rowGroup(&e.Task, card.Type, lookup)
			rows[g] = append(rows[g], e)
			shown[e.ID] = true
		}
		if ph := c.placeholderFor(card.ID); ph != nil {
			if _, ok := rows[ph.Group]; !ok {
				rows[ph.Group] = nil
			}
		}
		for _, g := range sortedGroups(rows) {
			ref := rowRef{card.ID, g}
			ids := c.rowOrder(ref, rows[g])
			c.order[ref] = ids
			card.Rows = append(card.Rows, Row{Group: g, Chips: c.layoutRow(card, g, ids, rows[g], lookup)})
		}
	}

	for _, e := range tasks {
		desc := domain.Describe(&e.Task, "", lookup)
		switch {
		case len(desc.Dangling) > 0:
			v.Diagnostics = append(v.Diagnostics, Diagnostic{
				TaskID:  e.ID,
				Missing: desc.Dangling,
				Message: fmt.Sprintf("task %d references unknown roles %v", e.ID, desc.Dangling),
			})
		case !shown[e.ID]:
			v.Diagnostics = append(v.Diagnostics, Diagnostic{
				TaskID:  e.ID,
				Message: fmt.Sprintf("task %d has no role in period %q", e.ID, c.period),
			})
		}
	}
	c.report(v.Diagnostics)
	return v, nil
}

// rowGroup is the group of the first other role of the task that has one.
func rowGroup(t *domain.Task, cardType string, lookup domain.RoleLookup) string {
	for _, typ := range t.RoleTypes() {
		if typ == cardType {
			continue
		}
		if r, ok := lookup(t.Roles[typ]); ok && r.GroupName() != "" {
			return r.GroupName()
		}
	}
	return ""
}

func sortedGroups[T any](rows map[string]T) []string {
	groups := make([]string, 0, len(rows))
	for g := range rows {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// rowOrder keeps the previous order of the row's tasks and appends new
// ones by id.
func (c *Controller) rowOrder(ref rowRef, entries []service.TaskEntry) []int {
	present := make(map[int]bool, len(entries))
	for _, e := range entries {
		present[e.ID] = true
	}
	ids := make([]int, 0, len(entries))
	for _, id := range c.order[ref] {
		if present[id] {
			ids = append(ids, id)
			delete(present, id)
		}
	}
	var rest []int
	for id := range present {
		rest = append(rest, id)
	}
	sort.Ints(rest)
	return append(ids, rest...)
}

func (c *Controller) layoutRow(card *RoleCard, group string, ids []int, entries []service.TaskEntry, lookup domain.RoleLookup) []Chip {
	byID := make(map[int]domain.Task, len(entries))
	for _, e := range entries {
		byID[e.ID] = e.Task
	}
	ph := c.placeholderFor(card.ID)
	if ph != nil && ph.Group != group {
		ph = nil
	}

	chips := make([]Chip, 0, len(ids)+1)
	x := 0
	place := func() {
		chips = append(chips, Chip{TaskID: c.drag.TaskID, Left: x, Width: c.drag.Width, Placeholder: true})
		x += c.drag.Width
	}
	for _, id := range ids {
		if ph != nil && ph.Before == id {
			place()
		}
		t := byID[id]
		desc := domain.Describe(&t, card.ID, lookup)
		ch := Chip{
			TaskID:   id,
			Value:    t.Value,
			Label:    domain.FormatValue(t.Value),
			Info:     desc.Info,
			Title:    desc.Title,
			Left:     x,
			Width:    c.cfg.ValueToWidth.ValueToSize(t.Value),
			Dangling: len(desc.Dangling) > 0,
			Dragged:  c.drag != nil && c.drag.TaskID == id,
		}
		if s, ok := c.resizes.pending(id); ok && s.Width > 0 {
			ch.Width = int(s.Width + 0.5)
			ch.Resizing = true
		}
		chips = append(chips, ch)
		x += ch.Width
	}
	if ph != nil && (ph.Before == EndOfList || !slices.Contains(ids, ph.Before)) {
		place()
	}
	return chips
}

func (c *Controller) placeholderFor(roleID string) *Placeholder {
	if c.drag == nil || c.drag.Placeholder == nil || c.drag.Placeholder.RoleID != roleID {
		return nil
	}
	return c.drag.Placeholder
}

func (c *Controller) orderContainers(containers map[[2]string]*Container) []Container {
	rank := make(map[string]int, len(c.cfg.RoleTypes))
	for i, t := range c.cfg.RoleTypes {
		rank[t] = i
	}
	out := make([]Container, 0, len(containers))
	for _, ct := range containers {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i].Type]
		rj, jok := rank[out[j].Type]
		switch {
		case iok != jok:
			return iok
		case iok && ri != rj:
			return ri < rj
		case out[i].Type != out[j].Type:
			return out[i].Type < out[j].Type
		}
		return out[i].Group < out[j].Group
	})
	return out
}
