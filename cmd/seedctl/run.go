package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/danmuck/muonseed/internal/cleaner"
	"github.com/danmuck/muonseed/internal/config"
	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/eventsetup"
	"github.com/danmuck/muonseed/internal/observability"
	"github.com/danmuck/muonseed/internal/seeding"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	configPath   string
	geometryPath string
	eventsPath   string
	workers      int
	format       string
	metrics      bool
}

func runFlags(cmd *cobra.Command) (runOptions, error) {
	var (
		opts runOptions
		err  error
	)
	if opts.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return opts, err
	}
	if opts.geometryPath, err = cmd.Flags().GetString("geometry"); err != nil {
		return opts, err
	}
	if opts.eventsPath, err = cmd.Flags().GetString("events"); err != nil {
		return opts, err
	}
	if opts.workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return opts, err
	}
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, err
	}
	if opts.metrics, err = cmd.Flags().GetBool("metrics"); err != nil {
		return opts, err
	}
	if opts.workers <= 0 {
		opts.workers = runtime.NumCPU()
	}
	if err := checkFormat(opts.format); err != nil {
		return opts, err
	}
	return opts, nil
}

func doRun(cmd *cobra.Command, args []string) error {
	opts, err := runFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.geometryPath != "" {
		cfg.Geometry = opts.geometryPath
	}
	if cfg.Geometry == "" {
		return fmt.Errorf("no geometry: set geometry in %s or pass --geometry", opts.configPath)
	}

	record, err := eventsetup.Load(cfg.Geometry, cfg.Field, nil)
	if err != nil {
		return err
	}
	c, err := cleaner.ByName(cfg.Cleaner)
	if err != nil {
		return err
	}
	builder, err := seeding.NewBuilder(cfg.Seeding(), c, log.Logger)
	if err != nil {
		return err
	}
	events, err := event.LoadYAML(opts.eventsPath)
	if err != nil {
		return err
	}
	log.Info().
		Str("config", opts.configPath).
		Str("geometry", cfg.Geometry).
		Str("propagator", cfg.Propagator).
		Int("events", len(events)).
		Int("workers", opts.workers).
		Msg("seeding run started")

	outputs, err := seedEvents(cmd, builder, record, events, opts.workers)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.format, outputs); err != nil {
		return err
	}
	if opts.metrics {
		return observability.WriteMetrics(os.Stderr)
	}
	return nil
}

// seedEvents runs the builder over events with a bounded worker pool.
// Output order follows input order.
func seedEvents(cmd *cobra.Command, b *seeding.Builder, svc seeding.Services, events []event.Event, workers int) ([]eventOutput, error) {
	outputs := make([]eventOutput, len(events))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, ev := range events {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := b.Build(svc, ev)
			if err != nil {
				observability.RecordAborted(time.Since(start))
				return fmt.Errorf("event %d: %w", ev.ID, err)
			}
			observability.RecordSummary(res.Summary, time.Since(start))
			outputs[i] = newEventOutput(ev.ID, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
