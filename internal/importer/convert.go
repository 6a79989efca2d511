package importer

import (
	"fmt"
	"maps"

	"github.com/alexanderramin/loadboard/internal/domain"
)

// Convert transforms a validated SnapshotSchema into a domain snapshot.
// Call ValidateSnapshot first; Convert only re-checks what it must to
// build the maps. Roles with no target in any period are left out; see
// UntargetedRoles.
func Convert(schema *SnapshotSchema) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()

	for id, r := range schema.Roles {
		if len(r.Target) == 0 {
			continue
		}
		target := maps.Clone(r.Target)
		snap.Roles[id] = domain.Role{
			Type:     r.Type,
			Name:     r.Name,
			Nickname: r.Nickname,
			Group:    r.Group,
			Comments: r.Comments,
			Target:   target,
		}
	}

	for key, t := range schema.Tasks {
		id, ok := parseTaskID(key)
		if !ok {
			return nil, fmt.Errorf("converting task %q: invalid id", key)
		}
		var value float64
		if t.Value != nil {
			value = *t.Value
		}
		snap.Tasks[id] = domain.Task{
			Roles:    maps.Clone(t.Roles),
			Period:   t.Period,
			Value:    value,
			Comments: t.Comments,
		}
	}

	return snap, nil
}

// FromSnapshot builds the file representation of a domain snapshot.
// UntargetedRoles lists, sorted, the ids of roles with no target in any
// period. A role only exists through its targets, so Convert drops them.
func UntargetedRoles(schema *SnapshotSchema) []string {
	var ids []string
	for _, id := range sortedKeys(schema.Roles) {
		if len(schema.Roles[id].Target) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func FromSnapshot(snap *domain.Snapshot) *SnapshotSchema {
	schema := &SnapshotSchema{
		Roles: make(map[string]RoleImport, len(snap.Roles)),
		Tasks: make(map[string]TaskImport, len(snap.Tasks)),
	}
	for id, r := range snap.Roles {
		target := r.Target
		if target == nil {
			target = map[string]float64{}
		}
		schema.Roles[id] = RoleImport{
			Type:     r.Type,
			Name:     r.Name,
			Nickname: r.Nickname,
			Group:    r.Group,
			Comments: r.Comments,
			Target:   target,
		}
	}
	for id, t := range snap.Tasks {
		value := t.Value
		schema.Tasks[fmt.Sprint(id)] = TaskImport{
			Roles:    t.Roles,
			Period:   t.Period,
			Value:    &value,
			Comments: t.Comments,
		}
	}
	return schema
}
