package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriods_ReverseSortedDistinct(t *testing.T) {
	roles := map[string]Role{
		"a": {Target: map[string]float64{"2024 HT": 1, "2025 VT": 1}},
		"b": {Target: map[string]float64{"2025 VT": 2, "2025 HT": 1}},
		"c": {},
	}

	assert.Equal(t, []string{"2025 VT", "2025 HT", "2024 HT"}, Periods(roles))
}

func TestPeriodsOrUnknown(t *testing.T) {
	assert.Equal(t, []string{"Unnamed period"}, PeriodsOrUnknown(nil, "Unnamed period"))

	roles := map[string]Role{"a": {Target: map[string]float64{"Fall": 1}}}
	assert.Equal(t, []string{"Fall"}, PeriodsOrUnknown(roles, "Unnamed period"))
}
