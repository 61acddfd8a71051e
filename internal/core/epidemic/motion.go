package epidemic

import "github.com/zeusync/contagion/internal/core/systems/physics"

// Advance moves every agent by one tick of its velocity and reflects it off
// the walls of the unit square, each axis on its own.
func Advance(pop *Population) {
	for i := range pop.Agents {
		a := &pop.Agents[i]
		a.Position, a.Velocity = physics.ReflectUnit(a.Position.Add(a.Velocity), a.Velocity)
	}
}
