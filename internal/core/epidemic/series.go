package epidemic

// DaySample is the compartment census at the start of a simulated day.
type DaySample struct {
	Day         int `json:"day"`
	Susceptible int `json:"s"`
	Infected    int `json:"i"`
	Recovered   int `json:"r"`
}

// Total returns S+I+R.
func (d DaySample) Total() int {
	return d.Susceptible + d.Infected + d.Recovered
}

// TimeSeries is the append-only list of daily samples.
type TimeSeries struct {
	samples []DaySample
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int { return len(ts.samples) }

// Last returns the most recent sample.
func (ts *TimeSeries) Last() (DaySample, bool) {
	if len(ts.samples) == 0 {
		return DaySample{}, false
	}
	return ts.samples[len(ts.samples)-1], true
}

// Samples returns a copy of all samples.
func (ts *TimeSeries) Samples() []DaySample {
	out := make([]DaySample, len(ts.samples))
	copy(out, ts.samples)
	return out
}

func (ts *TimeSeries) append(s DaySample) {
	ts.samples = append(ts.samples, s)
}

// MaybeSample appends the census of pop when tick falls on a day boundary and
// reports whether it did. ticksPerDay below one is treated as one.
func MaybeSample(pop *Population, tick, ticksPerDay int, series *TimeSeries) bool {
	if ticksPerDay < 1 {
		ticksPerDay = 1
	}
	if tick%ticksPerDay != 0 {
		return false
	}

	s, i, r := pop.Counts()
	series.append(DaySample{
		Day:         tick / ticksPerDay,
		Susceptible: s,
		Infected:    i,
		Recovered:   r,
	})
	return true
}
