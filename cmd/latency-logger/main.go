package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vsi-tools/internal/command"
	"vsi-tools/internal/config"
	"vsi-tools/internal/database"
	"vsi-tools/internal/latency"
	"vsi-tools/internal/log"
	"vsi-tools/internal/models"
	"vsi-tools/internal/ping"
	"vsi-tools/internal/report"
)

type pingerFactory func(count int) models.Pinger

var (
	errNoHistory    = errors.New("--history-db is required")
	errInvalidHours = errors.New("hours must be positive")
)

type reportOptions struct {
	historyDB string
	outputDir string
	hours     int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newPinger)
	cancel()

	os.Exit(code)
}

func newPinger(count int) models.Pinger {
	return ping.New(command.New(), count)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory pingerFactory) int {
	cmd := newRootCommand(stdout, stderr, factory)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}

func newRootCommand(stdout, stderr io.Writer, factory pingerFactory) *cobra.Command {
	logOpt := log.NewDefaultOptions()

	newLogger := func() *zap.SugaredLogger {
		return log.NewWithSink(logOpt.Debug, logOpt.Format, zapcore.AddSync(stderr)).Sugar()
	}

	cmd := &cobra.Command{
		Use:           "latency-logger",
		Short:         "Ping the configured destinations and append the round-trip summary to a log file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				logger.Errorw("failed to load configuration", zap.Error(err))
				return err
			}
			if err := cfg.Validate(); err != nil {
				logger.Errorw("invalid configuration", zap.Error(err))
				return err
			}

			return runLogger(cmd.Context(), cfg, factory(cfg.Count), stdout, logger)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		if err := c.Usage(); err != nil {
			return err
		}

		// ensure we exit with code 1 later on
		return err
	})

	config.AddFlags(cmd.Flags())
	logOpt.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newReportCommand(newLogger))

	return cmd
}

// runLogger performs one logging run. Only configuration problems are fatal;
// a failed append is logged and the process still exits 0.
func runLogger(ctx context.Context, cfg *config.Config, pinger models.Pinger, stdout io.Writer, logger *zap.SugaredLogger) error {
	var db *database.DB
	if cfg.HistoryDB != "" {
		db = openHistory(ctx, cfg.HistoryDB, logger)
	}
	if db != nil {
		defer db.Close()
	}

	var history models.History
	if db != nil {
		history = db
	}

	recorder := latency.New(cfg, pinger, history, stdout, logger)
	if err := recorder.Run(ctx); err != nil {
		logger.Errorw("Error in log performance", zap.Error(err))
	}

	if db != nil && cfg.Retention > 0 {
		removed, err := db.Prune(ctx, cfg.Retention)
		if err != nil {
			logger.Warnw("failed to prune probe history", zap.Error(err))
		} else if removed > 0 {
			logger.Debugw("pruned probe history", "rows", removed, "retention_days", cfg.Retention)
		}
	}

	return nil
}

// openHistory returns nil when the database cannot be used; the text log is
// written regardless.
func openHistory(ctx context.Context, path string, logger *zap.SugaredLogger) *database.DB {
	db, err := database.New(path)
	if err != nil {
		logger.Warnw("failed to open probe history", "path", path, zap.Error(err))
		return nil
	}

	if err := db.InitSchema(ctx); err != nil {
		logger.Warnw("failed to initialize probe history", "path", path, zap.Error(err))
		db.Close()
		return nil
	}

	return db
}

func newReportCommand(newLogger func() *zap.SugaredLogger) *cobra.Command {
	opt := reportOptions{
		outputDir: "reports",
		hours:     24,
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render latency charts and a text summary from the probe history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			if opt.historyDB == "" {
				logger.Errorw("missing probe history", zap.Error(errNoHistory))
				return errNoHistory
			}
			if opt.hours <= 0 {
				logger.Errorw("invalid report period", "hours", opt.hours, zap.Error(errInvalidHours))
				return errInvalidHours
			}

			if _, err := os.Stat(opt.historyDB); err != nil {
				logger.Errorw("probe history not found", "path", opt.historyDB, zap.Error(err))
				return err
			}

			db, err := database.New(opt.historyDB)
			if err != nil {
				logger.Errorw("failed to open probe history", "path", opt.historyDB, zap.Error(err))
				return err
			}
			defer db.Close()

			if err := db.InitSchema(cmd.Context()); err != nil {
				logger.Errorw("failed to initialize probe history", zap.Error(err))
				return err
			}

			dir, err := report.NewGenerator(db, logger).GenerateReport(cmd.Context(), opt.outputDir, opt.hours)
			if err != nil {
				logger.Errorw("failed to generate report", zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&opt.historyDB, "history-db", "", "sqlite database written by latency-logger --history-db (required)")
	cmd.Flags().StringVar(&opt.outputDir, "out", opt.outputDir, "directory the report is written below")
	cmd.Flags().IntVar(&opt.hours, "hours", opt.hours, "how many hours of history to include")

	return cmd
}
