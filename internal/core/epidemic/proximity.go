package epidemic

import (
	"context"
	"math"
	"runtime"

	"github.com/zeusync/contagion/internal/core/systems/physics"
	"github.com/zeusync/contagion/pkg/concurrent"
)

// Detector finds the exposed agents of a population: the susceptible agents
// whose nearest infected agent is strictly closer than radius. Results are
// agent indices in ascending order. Implementations differ only in cost.
type Detector interface {
	FindExposed(pop *Population, radius float64) []int
}

// FindExposed runs the reference brute-force scan.
func FindExposed(pop *Population, radius float64) []int {
	return NewBruteForce().FindExposed(pop, radius)
}

// NewDetector builds the detector selected by kind. workers is only used by
// the parallel detector; zero means GOMAXPROCS.
func NewDetector(kind DetectorKind, workers int) Detector {
	switch kind {
	case DetectorGrid:
		return NewGrid()
	case DetectorParallel:
		return NewParallel(workers)
	default:
		return NewBruteForce()
	}
}

// partition splits the population into infected and susceptible index lists,
// reusing the given buffers.
func partition(pop *Population, infected, susceptible []int) ([]int, []int) {
	infected = pop.indicesIn(infected[:0], Infected)
	susceptible = pop.indicesIn(susceptible[:0], Susceptible)
	return infected, susceptible
}

// minDistanceSq is the squared distance from p to the closest of candidates.
func minDistanceSq(pop *Population, p physics.Vec2, candidates []int) float64 {
	best := math.Inf(1)
	for _, idx := range candidates {
		if d := physics.DistanceSq(p, pop.Agents[idx].Position); d < best {
			best = d
		}
	}
	return best
}

// BruteForce compares every susceptible agent with every infected agent.
type BruteForce struct {
	infected    []int
	susceptible []int
}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (d *BruteForce) FindExposed(pop *Population, radius float64) []int {
	d.infected, d.susceptible = partition(pop, d.infected, d.susceptible)
	if len(d.infected) == 0 || len(d.susceptible) == 0 {
		return nil
	}

	r2 := radius * radius
	var exposed []int
	for _, s := range d.susceptible {
		if minDistanceSq(pop, pop.Agents[s].Position, d.infected) < r2 {
			exposed = append(exposed, s)
		}
	}
	return exposed
}

// maxGridCells caps the grid resolution per axis for very small radii.
const maxGridCells = 512

// Grid buckets infected agents into square cells no smaller than the radius,
// so each susceptible agent only needs to look at its own and the eight
// neighbouring cells.
type Grid struct {
	infected    []int
	susceptible []int
	cells       [][]int
	cols        int
}

func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) FindExposed(pop *Population, radius float64) []int {
	g.infected, g.susceptible = partition(pop, g.infected, g.susceptible)
	if len(g.infected) == 0 || len(g.susceptible) == 0 || radius <= 0 {
		return nil
	}

	g.reset(gridCols(radius))
	for _, idx := range g.infected {
		cx, cy := g.cellOf(pop.Agents[idx].Position)
		c := cy*g.cols + cx
		g.cells[c] = append(g.cells[c], idx)
	}

	r2 := radius * radius
	var exposed []int
	for _, s := range g.susceptible {
		pos := pop.Agents[s].Position
		if g.nearestSq(pop, pos) < r2 {
			exposed = append(exposed, s)
		}
	}
	return exposed
}

func gridCols(radius float64) int {
	if radius >= 1 {
		return 1
	}
	cols := int(1 / radius)
	if cols > maxGridCells {
		cols = maxGridCells
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g *Grid) reset(cols int) {
	n := cols * cols
	if g.cols != cols || len(g.cells) != n {
		g.cols = cols
		g.cells = make([][]int, n)
		return
	}
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cellOf(p physics.Vec2) (int, int) {
	return g.clamp(int(p.X * float64(g.cols))), g.clamp(int(p.Y * float64(g.cols)))
}

func (g *Grid) clamp(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *Grid) nearestSq(pop *Population, pos physics.Vec2) float64 {
	cx, cy := g.cellOf(pos)
	best := math.Inf(1)
	for y := cy - 1; y <= cy+1; y++ {
		if y < 0 || y >= g.cols {
			continue
		}
		for x := cx - 1; x <= cx+1; x++ {
			if x < 0 || x >= g.cols {
				continue
			}
			if d := minDistanceSq(pop, pos, g.cells[y*g.cols+x]); d < best {
				best = d
			}
		}
	}
	return best
}

// Parallel spreads the brute-force scan over worker goroutines. Each worker
// owns a contiguous range of susceptible agents and writes only its own
// flags, so the result is the same for any worker count.
type Parallel struct {
	Workers int

	infected    []int
	susceptible []int
	flags       []bool
}

func NewParallel(workers int) *Parallel {
	return &Parallel{Workers: workers}
}

func (d *Parallel) FindExposed(pop *Population, radius float64) []int {
	d.infected, d.susceptible = partition(pop, d.infected, d.susceptible)
	if len(d.infected) == 0 || len(d.susceptible) == 0 {
		return nil
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cap(d.flags) < len(d.susceptible) {
		d.flags = make([]bool, len(d.susceptible))
	}
	flags := d.flags[:len(d.susceptible)]

	r2 := radius * radius
	// the action never fails, so the error is always nil
	_ = concurrent.ForEachChunk(context.Background(), len(d.susceptible), workers,
		func(_ context.Context, span concurrent.Span) error {
			for k := span.Lo; k < span.Hi; k++ {
				pos := pop.Agents[d.susceptible[k]].Position
				flags[k] = minDistanceSq(pop, pos, d.infected) < r2
			}
			return nil
		})

	var exposed []int
	for k, hit := range flags {
		if hit {
			exposed = append(exposed, d.susceptible[k])
		}
	}
	return exposed
}
