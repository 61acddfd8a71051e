package epidemic

import "math/rand/v2"

// TransitionResult counts the state changes made by one ApplyTransitions call.
type TransitionResult struct {
	NewlyInfected  int
	NewlyRecovered int
}

// ApplyTransitions performs the infection and recovery step of a tick.
//
// Each exposed agent gets one independent Bernoulli trial with probability
// infectionProb, drawn from rng in the order of exposed. Agents that were
// infected before this call then age by one tick, and every infected agent
// whose age reached recoveryTicks recovers. Agents infected by this call start
// at age 0 and only recover in the same call when recoveryTicks <= 0.
func ApplyTransitions(pop *Population, exposed []int, infectionProb float64, recoveryTicks int, rng *rand.Rand) TransitionResult {
	var res TransitionResult

	// the aging pool is fixed before new infections are added
	prior := pop.indicesIn(pop.agingBuf[:0], Infected)
	pop.agingBuf = prior

	for _, idx := range exposed {
		a := &pop.Agents[idx]
		if a.State != Susceptible {
			continue
		}
		if rng.Float64() < infectionProb {
			a.State = Infected
			a.InfectionAge = 0
			res.NewlyInfected++
		}
	}

	for _, idx := range prior {
		pop.Agents[idx].InfectionAge++
	}

	for i := range pop.Agents {
		a := &pop.Agents[i]
		if a.State == Infected && a.InfectionAge >= recoveryTicks {
			a.State = Recovered
			a.InfectionAge = 0
			res.NewlyRecovered++
		}
	}

	return res
}
