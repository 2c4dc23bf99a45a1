package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/personnel-forecast/config"
	"github.com/warp/personnel-forecast/export"
	"github.com/warp/personnel-forecast/forecast"
	"github.com/warp/personnel-forecast/store/sqlite"
	"github.com/warp/personnel-forecast/workbook"
)

type runOptions struct {
	input   string
	output  string
	format  string
	sqlite  string
	workers int
}

func newRunCmd(app *config.Application) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Expand an input workbook into a monthly expense ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("output") && app.Output.Path != "" {
				opts.output = app.Output.Path
			}
			if !flags.Changed("format") {
				opts.format = app.Output.Format
			}
			if opts.format == "" {
				opts.format = export.FormatOf(opts.output)
			}
			if !flags.Changed("sqlite") {
				opts.sqlite = app.Output.SQLite
			}
			if !flags.Changed("workers") {
				opts.workers = app.Engine.Workers
			}
			if opts.output == "" {
				return fmt.Errorf("--output is required")
			}
			return runForecast(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input workbook (.xlsx) (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Ledger output file")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: csv, xlsx or json (default from --output extension)")
	cmd.Flags().StringVar(&opts.sqlite, "sqlite", "", "Also store the run in this SQLite database")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "Parallel adjustment workers")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runForecast(ctx context.Context, opts runOptions) error {
	start := time.Now()

	in, err := workbook.ReadFile(opts.input)
	if err != nil {
		return err
	}
	engine := &forecast.Engine{Workers: opts.workers}
	ledger, err := engine.Run(in)
	if err != nil {
		return err
	}
	if err := export.WriteFile(opts.output, opts.format, ledger); err != nil {
		return err
	}

	fields := log.Fields{
		"source":   opts.input,
		"output":   opts.output,
		"rows":     ledger.Len(),
		"total":    ledger.Total().StringFixed(2),
		"duration": time.Since(start),
	}

	if opts.sqlite != "" {
		store, err := sqlite.New(opts.sqlite)
		if err != nil {
			return err
		}
		defer store.Close()
		run, err := store.SaveRun(ctx, "cli", ledger)
		if err != nil {
			return err
		}
		fields["run_id"] = run.ID
	}

	log.WithFields(fields).Info("ledger written")
	for _, total := range ledger.Totals() {
		log.WithFields(log.Fields{
			"month":     total.Month,
			"amount":    total.Amount.StringFixed(2),
			"headcount": total.Headcount,
		}).Debug("month total")
	}
	return nil
}
