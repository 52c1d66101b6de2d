package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MaterialPrices/internal/config"
	"MaterialPrices/internal/job"
	"MaterialPrices/internal/recorder"
	"MaterialPrices/internal/scheduler"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(execute(os.Args[1:], os.Stdout, time.Now))
}

type options struct {
	configPath string
	output     string
	days       int
	seed       int64
	sqlitePath string
	cronSpec   string
}

// execute runs the command and maps any failure to exit code 2.
// Errors are reported on out, not on stderr.
func execute(args []string, out io.Writer, now func() time.Time) int {
	cmd := newRootCmd(out, now)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(out, "Error generating data: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "generate",
		Short:         "Generate synthetic construction prices CSV",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, out, now)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Optional YAML config with materials and defaults")
	f.StringVarP(&opts.output, "output", "o", config.DefaultOutput, "Output CSV filename")
	f.IntVarP(&opts.days, "days", "d", config.DefaultDays, "Number of days of history (ending last day of previous month)")
	f.Int64Var(&opts.seed, "seed", config.DefaultSeed, "Random seed")
	f.StringVar(&opts.sqlitePath, "sqlite", "", "Optional SQLite database recording every run")
	f.StringVar(&opts.cronSpec, "cron", "", "Optional refresh schedule (seconds field first); blocks until interrupted")
	return cmd
}

func run(cmd *cobra.Command, opts *options, out io.Writer, now func() time.Time) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	materials, err := cfg.MaterialSet()
	if err != nil {
		return err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	j := &job.Job{
		Materials: materials,
		Days:      *cfg.Days,
		Seed:      *cfg.Seed,
		Output:    cfg.Output,
		Recorder:  rec,
		Now:       now,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, j)
	sched.OnResult = func(res *job.Result) {
		fmt.Fprintf(out, "Generated %d rows and saved to: %s\n", res.Rows(), res.Path)
	}

	if _, err := sched.RunNow(); err != nil {
		return err
	}
	if cfg.Schedule.RefreshCron == "" {
		return nil
	}

	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	log.Printf("[INFO] refreshing on %q. Press Ctrl+C to stop.", cfg.Schedule.RefreshCron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	return nil
}

// applyFlags lets explicitly set flags win over config file and environment.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = opts.output
	}
	if f.Changed("days") {
		days := opts.days
		cfg.Days = &days
	}
	if f.Changed("seed") {
		seed := opts.seed
		cfg.Seed = &seed
	}
	if f.Changed("sqlite") {
		cfg.Database.SQLitePath = opts.sqlitePath
	}
	if f.Changed("cron") {
		cfg.Schedule.RefreshCron = opts.cronSpec
	}
}
