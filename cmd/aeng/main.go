// Package main is the entry point for the aeng command. It builds artist
// engagement reports from the event database and seeds demo data.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/j-veylop/artist-engagement/internal/config"
	"github.com/j-veylop/artist-engagement/internal/db"
	"github.com/j-veylop/artist-engagement/internal/logger"
	"github.com/j-veylop/artist-engagement/internal/metrics"
	"github.com/j-veylop/artist-engagement/internal/models"
	"github.com/j-veylop/artist-engagement/internal/services/analytics"
	"github.com/j-veylop/artist-engagement/internal/ui/report"
	"github.com/j-veylop/artist-engagement/internal/version"
)

var errorPrefix = color.New(color.FgRed, color.Bold)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		errorPrefix.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run dispatches to a subcommand. With no subcommand it builds a report.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "report"
	if len(args) > 0 {
		switch args[0] {
		case "-v", "--version", "version":
			fmt.Fprintln(stdout, version.Info())
			return nil
		case "-h", "--help", "help":
			printUsage(stdout)
			return nil
		case "report", "seed":
			cmd, args = args[0], args[1:]
		}
	}

	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, stderr)

	if cmd == "seed" {
		return runSeed(ctx, cfg, args, stdout, stderr)
	}
	return runReport(ctx, cfg, args, stdout, stderr)
}

type reportFlags struct {
	viewMode  string
	timeRange string
	date      string
	chartMode string
	artist    string
	format    string
	source    string
	dbPath    string
	watch     bool
	histogram bool
	width     int
	height    int
}

func parseReportFlags(cfg *config.Config, args []string, stderr io.Writer) (*reportFlags, error) {
	f := &reportFlags{}
	def := report.DefaultOptions()

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.viewMode, "mode", cfg.ViewMode.String(), "view mode: average or historical")
	fs.StringVar(&f.timeRange, "range", cfg.TimeRange.String(), "time range: day, week, month or year")
	fs.StringVar(&f.date, "date", cfg.ReportDate.Format(models.DateLayout), "reference date (YYYY-MM-DD)")
	fs.StringVar(&f.chartMode, "chart", cfg.ChartMode.String(), "hourly chart mode: all or split")
	fs.StringVar(&f.artist, "artist", "", "only report this artist")
	fs.StringVar(&f.format, "format", string(report.FormatText), "output format: text or json")
	fs.StringVar(&f.source, "source", string(cfg.AggregationSource), "aggregation source: core or sql")
	fs.StringVar(&f.dbPath, "db", cfg.DatabasePath, "SQLite database path")
	fs.BoolVar(&f.watch, "watch", false, "rebuild the report whenever the database changes")
	fs.BoolVar(&f.histogram, "histogram", false, "add the per-hour histogram to the text report")
	fs.IntVar(&f.width, "width", def.Width, "chart width")
	fs.IntVar(&f.height, "height", def.Height, "chart height")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return f, nil
}

func runReport(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	f, err := parseReportFlags(cfg, args, stderr)
	if err != nil {
		return err
	}

	q, err := analytics.ParseQuery(f.viewMode, f.timeRange, f.date, f.chartMode, time.Now())
	if err != nil {
		return err
	}
	q.Artist = f.artist

	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if cfg.AggregationSource, err = config.ParseSource(f.source); err != nil {
		return err
	}
	opts := report.Options{Width: f.width, Height: f.height, Histogram: f.histogram}

	// 2. Open the event database
	store, err := db.Open(ctx, f.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("error closing database", "error", closeErr)
		}
	}()

	svc := analytics.NewFromConfig(store, cfg)

	// 3. Build once, or keep rebuilding until interrupted
	if !f.watch {
		d, err := svc.Build(ctx, q)
		if err != nil {
			return err
		}
		if err := report.Write(stdout, format, d, svc.Charts(d), opts); err != nil {
			return err
		}
		return metrics.WriteTextfile(cfg.MetricsTextfile)
	}

	watchOpts := analytics.WatchOptions{
		Debounce:    cfg.WatchDebounce,
		MinInterval: cfg.WatchMinInterval,
	}
	if cfg.NotifyOnFailure {
		watchOpts.Notify = analytics.DesktopNotifier
	}
	return svc.Watch(ctx, f.dbPath, q, watchOpts, func(d *analytics.Dashboard, err error) {
		if err != nil {
			errorPrefix.Fprint(stderr, "Error: ")
			fmt.Fprintln(stderr, err)
			return
		}
		if err := report.Write(stdout, format, d, svc.Charts(d), opts); err != nil {
			logger.Error("failed to write report", "error", err)
		}
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("failed to write metrics", "error", err)
		}
	})
}

func runSeed(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	opts := db.DefaultSeedOptions()
	dbPath := cfg.DatabasePath

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&dbPath, "db", dbPath, "SQLite database path")
	fs.IntVar(&opts.Artists, "artists", opts.Artists, "number of artists")
	fs.IntVar(&opts.Users, "users", opts.Users, "number of users")
	fs.IntVar(&opts.Events, "events", opts.Events, "number of events")
	fs.IntVar(&opts.Sessions, "sessions", opts.Sessions, "number of sessions")
	fs.IntVar(&opts.Days, "days", opts.Days, "spread events over this many days before today")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := db.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("error closing database", "error", closeErr)
		}
	}()

	summary, err := store.Seed(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Seeded %s: %d artists, %d users, %d events, %d sessions, %d visits\n",
		dbPath, summary.Artists, summary.Users, summary.Events, summary.Sessions, summary.Visits)
	return nil
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `aeng - per-artist engagement reports in listeners' local time

Usage:
  aeng [report] [flags]   Build the engagement report (default)
  aeng seed [flags]       Fill the database with demo data
  aeng version            Show version information

Report flags:
  -mode average|historical   View mode (default: VIEW_MODE or average)
  -range day|week|month|year Time range for historical views
  -date YYYY-MM-DD           Reference date (default: today, UTC)
  -chart all|split           Hourly chart mode
  -artist NAME               Only report this artist
  -format text|json          Output format
  -source core|sql           Aggregate in-process or in SQLite
  -db PATH                   Database path
  -watch                     Rebuild whenever the database changes
  -histogram                 Add the per-hour histogram

Environment Variables:
  DATABASE_PATH        SQLite database path
  VIEW_MODE            average or historical
  TIME_RANGE           day, week, month or year
  REPORT_DATE          Reference date
  CHART_MODE           all or split
  AGGREGATION_SOURCE   core or sql
  DATE_BASIS           utc or local
  TABLES_PATH          YAML file overriding timezones, weights and colours
  METRICS_TEXTFILE     Write Prometheus metrics to this file after each build
  WATCH_DEBOUNCE       Quiet period before a rebuild (default: 500ms)
  WATCH_MIN_INTERVAL   Minimum time between rebuilds (default: 5s)
  NOTIFY_ON_FAILURE    Desktop notification when rebuilds fail
  LOG_LEVEL            debug, info, warn or error

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/aeng/.env
  - ~/.aeng/.env`)
}
