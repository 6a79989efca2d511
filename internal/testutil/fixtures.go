package testutil

import "github.com/alexanderramin/loadboard/internal/domain"

// Role options
type RoleOption func(*domain.Role)

func WithTarget(period string, value float64) RoleOption {
	return func(r *domain.Role) {
		r.SetTarget(period, value)
	}
}

func WithNickname(nick string) RoleOption {
	return func(r *domain.Role) {
		r.Nickname = &nick
	}
}

func WithGroup(group string) RoleOption {
	return func(r *domain.Role) {
		r.Group = &group
	}
}

func WithRoleComments(c string) RoleOption {
	return func(r *domain.Role) {
		r.Comments = &c
	}
}

// NewTestRole builds a role of the given type. Without a WithTarget option
// the role has no periods.
func NewTestRole(roleType, name string, opts ...RoleOption) *domain.Role {
	r := &domain.Role{Type: roleType, Name: name, Target: map[string]float64{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskComments(c string) TaskOption {
	return func(t *domain.Task) {
		t.Comments = &c
	}
}

func WithAxis(roleType, roleID string) TaskOption {
	return func(t *domain.Task) {
		t.Roles[roleType] = roleID
	}
}

// NewTestTask builds a task between a senior and a course role.
func NewTestTask(seniorID, courseID, period string, value float64, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		Roles:  map[string]string{"senior": seniorID, "course": courseID},
		Period: period,
		Value:  value,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
