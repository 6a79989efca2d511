package domain

import (
	"fmt"
	"maps"
	"strings"
)

// Role is one allocatable bucket: a person, a course, a budget line.
// A role exists in a period iff Target has a key for it.
type Role struct {
	Type     string             `json:"type"`
	Name     string             `json:"name"`
	Nickname *string            `json:"nickname,omitempty"`
	Group    *string            `json:"group,omitempty"`
	Comments *string            `json:"comments,omitempty"`
	Target   map[string]float64 `json:"target"`
}

// DisplayName returns the nickname, or the name when no nickname is set.
func (r *Role) DisplayName() string {
	return CoalesceStr(StrValue(r.Nickname), r.Name)
}

// GroupName returns the group tag or "".
func (r *Role) GroupName() string {
	return StrValue(r.Group)
}

// HasPeriod reports whether the role is visible in period.
func (r *Role) HasPeriod(period string) bool {
	_, ok := r.Target[period]
	return ok
}

// TargetFor returns the capacity for period. Missing periods read as zero.
func (r *Role) TargetFor(period string) (float64, bool) {
	v, ok := r.Target[period]
	return v, ok
}

// SetTarget sets the capacity for period, adding the role to it.
func (r *Role) SetTarget(period string, value float64) {
	if r.Target == nil {
		r.Target = make(map[string]float64)
	}
	r.Target[period] = value
}

// RemovePeriod drops period from the target mapping. It reports whether
// the role is now empty and should be deleted.
func (r *Role) RemovePeriod(period string) (empty bool) {
	delete(r.Target, period)
	return len(r.Target) == 0
}

// Exists reports whether the role is present in at least one period.
func (r *Role) Exists() bool {
	return len(r.Target) > 0
}

// Clone returns a deep copy.
func (r Role) Clone() Role {
	c := r
	c.Nickname = cloneStr(r.Nickname)
	c.Group = cloneStr(r.Group)
	c.Comments = cloneStr(r.Comments)
	c.Target = maps.Clone(r.Target)
	return c
}

// Validate checks the role against the configured role types. An empty
// types list accepts any non-empty type.
func (r *Role) Validate(types []string) error {
	if strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidRole)
	}
	if len(types) > 0 && !containsStr(types, r.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRole, r.Type)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRole)
	}
	for period, v := range r.Target {
		if period == "" {
			return fmt.Errorf("%w: empty period name in target", ErrInvalidRole)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative target %v for %q", ErrInvalidRole, v, period)
		}
	}
	return nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
