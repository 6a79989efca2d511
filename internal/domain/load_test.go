package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLoad_TwoAxisScenario(t *testing.T) {
	a := Role{Type: "senior", Name: "Ada", Target: map[string]float64{"Fall": 100}}
	b := Role{Type: "course", Name: "Logic", Target: map[string]float64{"Fall": 50}}
	tasks := []Task{
		{Roles: map[string]string{"senior": "A", "course": "B"}, Period: "Fall", Value: 40},
	}

	la := ComputeLoad("A", &a, "Fall", tasks)
	lb := ComputeLoad("B", &b, "Fall", tasks)

	assert.Equal(t, 40, la.Percent)
	assert.Equal(t, 80, lb.Percent)
	assert.Equal(t, "–60", la.DeviationText())
	assert.Equal(t, "–10", lb.DeviationText())
}

func TestUsedValue_FiltersPeriodAndAxis(t *testing.T) {
	tasks := []Task{
		{Roles: map[string]string{"senior": "A", "course": "B"}, Period: "Fall", Value: 40},
		{Roles: map[string]string{"senior": "A", "course": "C"}, Period: "Fall", Value: 25},
		{Roles: map[string]string{"senior": "A", "course": "B"}, Period: "Spring", Value: 99},
		{Roles: map[string]string{"junior": "A", "course": "B"}, Period: "Fall", Value: 7},
	}

	assert.Equal(t, 65.0, UsedValue("A", "senior", "Fall", tasks))
	assert.Equal(t, 47.0, UsedValue("B", "course", "Fall", tasks))
	assert.Equal(t, 0.0, UsedValue("Z", "senior", "Fall", tasks))
}

func TestUsedPercent(t *testing.T) {
	cases := []struct {
		used, target float64
		want         int
	}{
		{40, 100, 40},
		{1, 3, 33},
		{2, 3, 67},
		{150, 100, 150},
		{10, 0, 0},
		{10, -5, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, UsedPercent(tc.used, tc.target), "used=%v target=%v", tc.used, tc.target)
	}
}

func TestComputeLoad_MissingTargetIsZero(t *testing.T) {
	r := Role{Type: "senior", Name: "Ada", Target: map[string]float64{"Spring": 100}}
	tasks := []Task{{Roles: map[string]string{"senior": "A", "course": "B"}, Period: "Fall", Value: 30}}

	l := ComputeLoad("A", &r, "Fall", tasks)
	assert.False(t, l.HasTarget)
	assert.Equal(t, 0, l.Percent)
	assert.Equal(t, "+30", l.DeviationText())
}

func TestDisplaySign(t *testing.T) {
	assert.Equal(t, "+5", DisplaySign(5))
	assert.Equal(t, "–3", DisplaySign(-3))
	assert.Equal(t, "±0", DisplaySign(0))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "40", FormatValue(40))
	assert.Equal(t, "40.5", FormatValue(40.5))
	assert.Equal(t, "0", FormatValue(0))
}
