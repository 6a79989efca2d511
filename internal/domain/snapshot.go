package domain

import "sort"

// Snapshot is the full persisted board: every role by id and every task
// by numeric id.
type Snapshot struct {
	Roles map[string]Role `json:"roles"`
	Tasks map[int]Task    `json:"tasks"`
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{Roles: map[string]Role{}, Tasks: map[int]Task{}}
}

// TaskIDs returns the task ids in ascending order.
func (s *Snapshot) TaskIDs() []int {
	ids := make([]int, 0, len(s.Tasks))
	for id := range s.Tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Lookup returns a RoleLookup over the snapshot's roles.
func (s *Snapshot) Lookup() RoleLookup {
	return func(id string) (Role, bool) {
		r, ok := s.Roles[id]
		return r, ok
	}
}

// DanglingRefs lists, per task id, the role ids that do not resolve.
func (s *Snapshot) DanglingRefs() map[int][]string {
	out := make(map[int][]string)
	for _, id := range s.TaskIDs() {
		t := s.Tasks[id]
		for _, typ := range t.RoleTypes() {
			if _, ok := s.Roles[t.Roles[typ]]; !ok {
				out[id] = append(out[id], t.Roles[typ])
			}
		}
	}
	return out
}
