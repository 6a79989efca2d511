package domain

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// MinTaskRoles is the smallest number of axes a task may span.
const MinTaskRoles = 2

// Task is one unit of allocated work. Roles maps a role type to the id of
// the role carrying the load on that axis.
type Task struct {
	Roles    map[string]string `json:"roles"`
	Period   string            `json:"period"`
	Value    float64           `json:"value"`
	Comments *string           `json:"comments,omitempty"`
}

// RoleFor returns the role id on the given axis.
func (t *Task) RoleFor(roleType string) (string, bool) {
	id, ok := t.Roles[roleType]
	return id, ok && id != ""
}

// References reports whether the task names roleID on any axis.
func (t *Task) References(roleID string) bool {
	for _, id := range t.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// RoleTypes returns the task's axes in sorted order.
func (t *Task) RoleTypes() []string {
	types := make([]string, 0, len(t.Roles))
	for typ := range t.Roles {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	c := t
	c.Roles = maps.Clone(t.Roles)
	c.Comments = cloneStr(t.Comments)
	return c
}

// Equal reports whether two tasks carry the same fields.
func (t *Task) Equal(o *Task) bool {
	return t.Period == o.Period &&
		t.Value == o.Value &&
		maps.Equal(t.Roles, o.Roles) &&
		strPtrEqual(t.Comments, o.Comments)
}

// Validate checks the structural task invariants.
func (t *Task) Validate() error {
	if len(t.Roles) < MinTaskRoles {
		return fmt.Errorf("%w: needs at least %d roles, has %d", ErrInvalidTask, MinTaskRoles, len(t.Roles))
	}
	for typ, id := range t.Roles {
		if strings.TrimSpace(typ) == "" || strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty role reference", ErrInvalidTask)
		}
	}
	if strings.TrimSpace(t.Period) == "" {
		return fmt.Errorf("%w: period is required", ErrInvalidTask)
	}
	if t.Value < 0 {
		return fmt.Errorf("%w: negative value %v", ErrInvalidTask, t.Value)
	}
	return nil
}
