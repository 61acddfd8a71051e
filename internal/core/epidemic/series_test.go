package epidemic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMaybeSample_Cadence(t *testing.T) {
	pop := placed(Params{},
		Agent{State: Infected},
		Agent{State: Susceptible},
		Agent{State: Recovered},
		Agent{State: Susceptible},
	)
	var series TimeSeries

	var sampledAt []int
	for tick := 0; tick <= 45; tick++ {
		if MaybeSample(pop, tick, 15, &series) {
			sampledAt = append(sampledAt, tick)
		}
	}

	assert.Equal(t, []int{0, 15, 30, 45}, sampledAt)
	want := []DaySample{
		{Day: 0, Susceptible: 2, Infected: 1, Recovered: 1},
		{Day: 1, Susceptible: 2, Infected: 1, Recovered: 1},
		{Day: 2, Susceptible: 2, Infected: 1, Recovered: 1},
		{Day: 3, Susceptible: 2, Infected: 1, Recovered: 1},
	}
	if diff := cmp.Diff(want, series.Samples()); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
	for _, s := range series.Samples() {
		assert.Equal(t, pop.Len(), s.Total())
	}
}

func TestMaybeSample_NonPositiveTicksPerDay(t *testing.T) {
	pop := placed(Params{}, Agent{State: Susceptible})
	var series TimeSeries

	assert.True(t, MaybeSample(pop, 3, 0, &series))
	last, ok := series.Last()
	assert.True(t, ok)
	assert.Equal(t, 3, last.Day)
}

func TestTimeSeries_SamplesIsCopy(t *testing.T) {
	var series TimeSeries
	_, ok := series.Last()
	assert.False(t, ok)

	MaybeSample(placed(Params{}, Agent{State: Susceptible}), 0, 1, &series)
	got := series.Samples()
	got[0].Susceptible = 99

	last, _ := series.Last()
	assert.Equal(t, 1, last.Susceptible)
	assert.Equal(t, 1, series.Len())
}
