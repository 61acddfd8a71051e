package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
	"github.com/zeusync/contagion/internal/export"
	"github.com/zeusync/contagion/internal/injector"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	susStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	infStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	summary     = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		exportPath string
		every      int
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation headless and print the daily counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			level, err := opts.level()
			if err != nil {
				return err
			}

			runner, err := injector.InitializeRunner(cfg, level)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if !quiet {
				table := newDayTable(out, every)
				table.header()
				for _, d := range runner.Scheduler.Series() {
					table.row(d)
				}
				sub := runner.Events.Subscribe(epidemic.EventDaySampled, func(e bus.Event) error {
					table.row(e.Data().(epidemic.DaySampledEvent).Sample)
					return nil
				})
				defer runner.Events.Unsubscribe(sub)
			}

			last, err := runner.Scheduler.Run(ctx, nil)
			if err != nil {
				runner.Logger.Error("simulation aborted", log.Error(err))
				return err
			}

			stats := runner.Events.Stats()
			runner.Logger.Debug("run events",
				log.Uint64("published", stats.Published),
				log.Uint64("delivered", stats.Delivered),
			)

			s, i, r := last.Counts()
			fmt.Fprintln(out, summary.Render(fmt.Sprintf("Final S, I, R: %d %d %d", s, i, r)))

			if exportPath != "" {
				if err = saveRun(ctx, exportPath, cfg, last); err != nil {
					runner.Logger.Error("export failed", log.String("path", exportPath), log.Error(err))
					return err
				}
				runner.Logger.Info("run exported", log.String("path", exportPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "write the run to this SQLite file")
	cmd.Flags().IntVar(&every, "every", 1, "print one row every N days")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final counts")
	return cmd
}

// dayTable prints one styled row per sampled day as the run progresses.
type dayTable struct {
	w     io.Writer
	every int
}

func newDayTable(w io.Writer, every int) *dayTable {
	if every < 1 {
		every = 1
	}
	return &dayTable{w: w, every: every}
}

func (t *dayTable) header() {
	fmt.Fprintln(t.w, headerStyle.Render(fmt.Sprintf("%5s %12s %12s %12s", "day", "susceptible", "infected", "recovered")))
}

func (t *dayTable) row(d epidemic.DaySample) {
	if d.Day%t.every != 0 {
		return
	}
	fmt.Fprintln(t.w,
		dayStyle.Render(fmt.Sprintf("%5d", d.Day)),
		susStyle.Render(fmt.Sprintf("%12d", d.Susceptible)),
		infStyle.Render(fmt.Sprintf("%12d", d.Infected)),
		recStyle.Render(fmt.Sprintf("%12d", d.Recovered)),
	)
}

func saveRun(ctx context.Context, path string, cfg epidemic.Config, last epidemic.Snapshot) error {
	store, err := export.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(ctx, cfg, last)
}
