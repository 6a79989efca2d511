package domain

import (
	"math"
	"strconv"
)

// Load is a role's aggregate allocation for one period.
type Load struct {
	Target    float64
	HasTarget bool
	Used      float64
	Percent   int
	Deviation int
}

// UsedValue sums the values of tasks in period that put roleID on the
// roleType axis.
func UsedValue(roleID, roleType, period string, tasks []Task) float64 {
	var used float64
	for i := range tasks {
		t := &tasks[i]
		if t.Period != period {
			continue
		}
		if id, ok := t.RoleFor(roleType); ok && id == roleID {
			used += t.Value
		}
	}
	return used
}

// UsedPercent is round(100*used/target), or 0 when there is no positive target.
func UsedPercent(used, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(roundHalfUp(100 * used / target))
}

// ComputeLoad derives the aggregate load of role in period.
func ComputeLoad(roleID string, role *Role, period string, tasks []Task) Load {
	target, ok := role.TargetFor(period)
	used := UsedValue(roleID, role.Type, period, tasks)
	return Load{
		Target:    target,
		HasTarget: ok,
		Used:      used,
		Percent:   UsedPercent(used, target),
		Deviation: int(roundHalfUp(used - target)),
	}
}

// DeviationText formats the load's signed deviation.
func (l Load) DeviationText() string {
	return DisplaySign(l.Deviation)
}

// DisplaySign formats n as "+N", "–N" (en dash) or "±0".
func DisplaySign(n int) string {
	switch {
	case n > 0:
		return "+" + strconv.Itoa(n)
	case n < 0:
		return "–" + strconv.Itoa(-n)
	default:
		return "±0"
	}
}

// FormatValue renders a value without trailing zeros.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
