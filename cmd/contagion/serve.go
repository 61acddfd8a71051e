package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
	"github.com/zeusync/contagion/internal/injector"
	"github.com/zeusync/contagion/internal/render/stream"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr   string
		fps    int
		linger time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream a live simulation to websocket viewers at /ws",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps < 1 {
				return errors.New("--fps must be at least 1")
			}
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			level, err := opts.level()
			if err != nil {
				return err
			}

			player, err := injector.InitializePlayer(cfg, level)
			if err != nil {
				return err
			}
			logger := player.Logger
			defer func() { _ = logger.Sync() }()

			sub := player.Events.Subscribe(epidemic.EventDaySampled, func(e bus.Event) error {
				d := e.Data().(epidemic.DaySampledEvent).Sample
				logger.Info("day",
					log.Int("day", d.Day),
					log.Int("susceptible", d.Susceptible),
					log.Int("infected", d.Infected),
					log.Int("recovered", d.Recovered),
					log.Int("viewers", player.Hub.Viewers()),
				)
				return nil
			})
			defer player.Events.Unsubscribe(sub)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}

			mux := http.NewServeMux()
			mux.Handle("/ws", player.Hub)
			srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			// a failing server stops the run instead of ticking with nobody listening
			playCtx, cancelPlay := context.WithCancelCause(ctx)
			defer cancelPlay(nil)
			serveDone := make(chan struct{})
			go func() {
				defer close(serveDone)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					cancelPlay(fmt.Errorf("serve %s: %w", addr, err))
				}
			}()

			interval := time.Second / time.Duration(fps)
			logger.Info("streaming simulation",
				log.String("addr", ln.Addr().String()),
				log.Duration("tick_interval", interval),
				log.String("run_id", player.Scheduler.RunID()),
			)

			last, err := stream.Play(playCtx, player.Scheduler, player.Hub, interval)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("simulation aborted", log.Error(err))
			}
			s, i, r := last.Counts()
			stats := player.Events.Stats()
			logger.Info("final counts",
				log.Int("susceptible", s),
				log.Int("infected", i),
				log.Int("recovered", r),
				log.Uint64("events_published", stats.Published),
			)

			// keep the last frame available to viewers until interrupted
			if err == nil && linger > 0 {
				select {
				case <-playCtx.Done():
				case <-time.After(linger):
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = player.Hub.Close()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				logger.Error("http shutdown", log.Error(shutdownErr))
			}
			<-serveDone

			if cause := context.Cause(playCtx); cause != nil && ctx.Err() == nil && !errors.Is(cause, context.Canceled) {
				return cause
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&fps, "fps", 30, "ticks per wall-clock second")
	cmd.Flags().DurationVar(&linger, "linger", time.Minute, "keep serving the final frame this long after the run ends")
	return cmd
}
