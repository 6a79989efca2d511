package domain

import "sort"

// Periods returns the distinct period names across all role targets,
// sorted in reverse lexicographic order so newer-looking names come first.
func Periods(roles map[string]Role) []string {
	seen := make(map[string]struct{})
	for _, r := range roles {
		for p := range r.Target {
			seen[p] = struct{}{}
		}
	}
	periods := make([]string, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods
}

// PeriodsOrUnknown is Periods with a display-only sentinel when no role
// has any period. The sentinel is never persisted.
func PeriodsOrUnknown(roles map[string]Role, unknown string) []string {
	periods := Periods(roles)
	if len(periods) == 0 {
		return []string{unknown}
	}
	return periods
}

// HasPeriodName reports whether name is among periods.
func HasPeriodName(periods []string, name string) bool {
	return containsStr(periods, name)
}
