package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/observability/log"
)

// options are the flags shared by every sub-command.
type options struct {
	configPath string
	logLevel   string

	population      int
	initialInfected int
	recoveryDays    float64
	radius          float64
	prob            float64
	speed           float64
	ticksPerDay     int
	days            int
	seed            uint64
	detector        string
	workers         int
	stopWhenExtinct bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := epidemic.DefaultConfig()

	root := &cobra.Command{
		Use:   "contagion",
		Short: "Proximity-driven SIR epidemic simulation",
		Long: `contagion moves a closed population of point agents around the unit square
and spreads an infection between agents that come close to each other.

Susceptible agents near an infected agent may catch the disease each tick,
infected agents recover after a fixed number of days, and the daily
Susceptible/Infected/Recovered counts are collected as a time series.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file with simulation parameters")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error, silent")
	flags.IntVarP(&opts.population, "population", "n", defaults.Population, "total number of people")
	flags.IntVarP(&opts.initialInfected, "infected", "i", defaults.InitialInfected, "initially infected people")
	flags.Float64VarP(&opts.recoveryDays, "recovery-days", "r", defaults.RecoveryDays, "recovery time in days")
	flags.Float64Var(&opts.radius, "radius", defaults.InfectionRadius, "infection radius")
	flags.Float64Var(&opts.prob, "prob", defaults.InfectionProb, "infection probability per tick while exposed")
	flags.Float64Var(&opts.speed, "speed", defaults.MoveSpeed, "agent speed scale")
	flags.IntVar(&opts.ticksPerDay, "ticks-per-day", defaults.TicksPerDay, "ticks in one simulated day")
	flags.IntVar(&opts.days, "days", defaults.TotalDays, "simulated days")
	flags.Uint64Var(&opts.seed, "seed", defaults.Seed, "random seed")
	flags.StringVar(&opts.detector, "detector", string(defaults.Detector), "proximity detector: brute, grid, parallel")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "goroutines for the parallel detector (0 = GOMAXPROCS)")
	flags.BoolVar(&opts.stopWhenExtinct, "stop-when-extinct", defaults.StopWhenExtinct, "end the run once nobody is infected")

	root.AddCommand(newRunCmd(opts), newServeCmd(opts), newConfigCmd(opts), newRunsCmd())
	return root
}

// config merges defaults, the optional config file and explicitly set flags,
// in that order, and validates the result.
func (o *options) config(flags *pflag.FlagSet) (epidemic.Config, error) {
	cfg := epidemic.DefaultConfig()
	if o.configPath != "" {
		f, err := os.Open(o.configPath)
		if err != nil {
			return epidemic.Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = epidemic.LoadConfig(f); err != nil {
			return epidemic.Config{}, fmt.Errorf("load %s: %w", o.configPath, err)
		}
	}

	overrides := map[string]func(){
		"population":        func() { cfg.Population = o.population },
		"infected":          func() { cfg.InitialInfected = o.initialInfected },
		"recovery-days":     func() { cfg.RecoveryDays = o.recoveryDays },
		"radius":            func() { cfg.InfectionRadius = o.radius },
		"prob":              func() { cfg.InfectionProb = o.prob },
		"speed":             func() { cfg.MoveSpeed = o.speed },
		"ticks-per-day":     func() { cfg.TicksPerDay = o.ticksPerDay },
		"days":              func() { cfg.TotalDays = o.days },
		"seed":              func() { cfg.Seed = o.seed },
		"detector":          func() { cfg.Detector = epidemic.DetectorKind(o.detector) },
		"workers":           func() { cfg.Workers = o.workers },
		"stop-when-extinct": func() { cfg.StopWhenExtinct = o.stopWhenExtinct },
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		return epidemic.Config{}, err
	}
	return cfg, nil
}

func (o *options) level() (log.Level, error) {
	return log.ParseLevel(o.logLevel)
}
