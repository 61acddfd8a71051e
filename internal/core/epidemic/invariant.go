package epidemic

import "fmt"

// CheckTransition verifies that no agent moved backwards between two state
// vectors of the same population.
func CheckTransition(tick int, before, after []HealthState) error {
	if len(before) != len(after) {
		return &InvariantError{Tick: tick, Agent: -1, Reason: fmt.Sprintf("population size changed from %d to %d", len(before), len(after))}
	}
	for i := range after {
		if after[i] < before[i] {
			return &InvariantError{Tick: tick, Agent: i, Reason: fmt.Sprintf("health regressed from %s to %s", before[i], after[i])}
		}
	}
	return nil
}

// CheckPopulation verifies bounds, infection ages and compartment
// conservation of pop.
func CheckPopulation(tick int, pop *Population) error {
	if len(pop.Agents) != pop.Params.Size {
		return &InvariantError{Tick: tick, Agent: -1, Reason: fmt.Sprintf("population holds %d agents, want %d", len(pop.Agents), pop.Params.Size)}
	}

	for i, a := range pop.Agents {
		if a.Position.X < 0 || a.Position.X > 1 || a.Position.Y < 0 || a.Position.Y > 1 {
			return &InvariantError{Tick: tick, Agent: i, Reason: fmt.Sprintf("position (%g, %g) outside the unit square", a.Position.X, a.Position.Y)}
		}
		if a.InfectionAge < 0 {
			return &InvariantError{Tick: tick, Agent: i, Reason: fmt.Sprintf("negative infection age %d", a.InfectionAge)}
		}
		if a.State != Infected && a.InfectionAge != 0 {
			return &InvariantError{Tick: tick, Agent: i, Reason: fmt.Sprintf("%s agent has infection age %d", a.State, a.InfectionAge)}
		}
	}

	if s, i, r := pop.Counts(); s+i+r != len(pop.Agents) {
		return &InvariantError{Tick: tick, Agent: -1, Reason: fmt.Sprintf("S+I+R=%d, want %d", s+i+r, len(pop.Agents))}
	}
	return nil
}

func healthStates(pop *Population) []HealthState {
	out := make([]HealthState, len(pop.Agents))
	for i, a := range pop.Agents {
		out[i] = a.State
	}
	return out
}
