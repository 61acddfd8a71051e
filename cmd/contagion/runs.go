package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/contagion/internal/export"
)

func newRunsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List runs saved with run --export, or show the daily counts of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			store, err := export.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				series, err := store.LoadSeries(ctx, args[0])
				if err != nil {
					return err
				}
				table := newDayTable(out, 1)
				table.header()
				for _, d := range series {
					table.row(d)
				}
				return nil
			}

			ids, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-36s %20s %6s %6s %6s %6s %16s", "run", "created", "seed", "S", "I", "R", "fingerprint")))
			for _, id := range ids {
				run, err := store.LoadRun(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-36s %20s %6d %s %s %s %16x\n",
					run.RunID,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Config.Seed,
					susStyle.Render(fmt.Sprintf("%6d", run.Final.Susceptible)),
					infStyle.Render(fmt.Sprintf("%6d", run.Final.Infected)),
					recStyle.Render(fmt.Sprintf("%6d", run.Final.Recovered)),
					run.Fingerprint,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file written by run --export")
	return cmd
}
