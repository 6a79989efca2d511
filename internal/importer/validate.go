package importer

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/alexanderramin/loadboard/internal/domain"
)

// ValidateSnapshot checks the snapshot for structural errors before
// conversion and returns all of them. roleTypes is the accepted role-type
// vocabulary; empty accepts any type. Task references to roles that do
// not exist are not errors here; they surface later as diagnostics.
func ValidateSnapshot(schema *SnapshotSchema, roleTypes []string) []error {
	var errs []error
	errs = append(errs, validateRoles(schema.Roles, roleTypes)...)
	errs = append(errs, validateTasks(schema.Tasks, roleTypes)...)
	return errs
}

func validateRoles(roles map[string]RoleImport, roleTypes []string) []error {
	var errs []error

	for _, id := range sortedKeys(roles) {
		r := roles[id]
		prefix := fmt.Sprintf("roles[%q]", id)

		if id == "" {
			errs = append(errs, fmt.Errorf("%s: role id is required", prefix))
		}
		if r.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if len(roleTypes) > 0 && !contains(roleTypes, r.Type) {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, r.Type))
		}
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		for _, period := range sortedKeys(r.Target) {
			if period == "" {
				errs = append(errs, fmt.Errorf("%s.target: empty period name", prefix))
			}
			if v := r.Target[period]; v < 0 {
				errs = append(errs, fmt.Errorf("%s.target[%q] must not be negative", prefix, period))
			}
		}
	}

	return errs
}

func validateTasks(tasks map[string]TaskImport, roleTypes []string) []error {
	var errs []error

	for _, key := range sortedKeys(tasks) {
		t := tasks[key]
		prefix := fmt.Sprintf("tasks[%q]", key)

		if _, ok := parseTaskID(key); !ok {
			errs = append(errs, fmt.Errorf("%s: task id must be a non-negative integer", prefix))
		}
		if len(t.Roles) < domain.MinTaskRoles {
			errs = append(errs, fmt.Errorf("%s.roles: needs at least %d roles, has %d", prefix, domain.MinTaskRoles, len(t.Roles)))
		}
		for _, typ := range sortedKeys(t.Roles) {
			if len(roleTypes) > 0 && !contains(roleTypes, typ) {
				errs = append(errs, fmt.Errorf("%s.roles: invalid role type %q", prefix, typ))
			}
			if t.Roles[typ] == "" {
				errs = append(errs, fmt.Errorf("%s.roles[%q]: role id is required", prefix, typ))
			}
		}
		if t.Period == "" {
			errs = append(errs, fmt.Errorf("%s.period is required", prefix))
		}
		if t.Value == nil {
			errs = append(errs, fmt.Errorf("%s.value is required", prefix))
		} else if *t.Value < 0 {
			errs = append(errs, fmt.Errorf("%s.value must not be negative", prefix))
		}
	}

	return errs
}

func parseTaskID(key string) (int, bool) {
	id, err := strconv.Atoi(key)
	if err != nil || id < 0 || strconv.Itoa(id) != key {
		return 0, false
	}
	return id, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
