package epidemic

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is a read-only copy of the simulation after a tick. Nothing in it
// aliases engine state.
type Snapshot struct {
	RunID     string        `json:"run_id"`
	Tick      int           `json:"tick"`
	Day       int           `json:"day"`
	Positions [][2]float64  `json:"positions"`
	States    []HealthState `json:"states"`
	Series    []DaySample   `json:"series"`
}

func newSnapshot(runID string, tick, ticksPerDay int, pop *Population, series *TimeSeries) Snapshot {
	snap := Snapshot{
		RunID:     runID,
		Tick:      tick,
		Day:       tick / ticksPerDay,
		Positions: make([][2]float64, len(pop.Agents)),
		States:    make([]HealthState, len(pop.Agents)),
		Series:    series.Samples(),
	}
	for i, a := range pop.Agents {
		snap.Positions[i] = [2]float64{a.Position.X, a.Position.Y}
		snap.States[i] = a.State
	}
	return snap
}

// Counts returns the compartment sizes of the snapshot.
func (s Snapshot) Counts() (sus, inf, rec int) {
	for _, st := range s.States {
		switch st {
		case Susceptible:
			sus++
		case Infected:
			inf++
		case Recovered:
			rec++
		}
	}
	return sus, inf, rec
}

// Fingerprint hashes positions (exact bit patterns) and states. Two snapshots
// with equal fingerprints almost certainly hold identical agent data.
func (s Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, p := range s.Positions {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p[0]))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p[1]))
		_, _ = h.Write(buf[:])
	}
	states := make([]byte, len(s.States))
	for i, st := range s.States {
		states[i] = byte(st)
	}
	_, _ = h.Write(states)
	return h.Sum64()
}
