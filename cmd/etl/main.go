// Command etl runs the retail batch job: it cleans the customers, products
// and sales extracts, loads the four destination tables and writes the
// data-quality report.
//
//	etl validate --config configs/fleximart.yaml
//	etl probe --config configs/fleximart.yaml
//	etl run --config configs/fleximart.yaml -v
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salesetl/internal/config"
	"salesetl/internal/logging"
	"salesetl/internal/pipeline"
	"salesetl/internal/probe"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "salesetl/internal/storage/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	cfgPath string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "etl",
		Short:         "Retail batch ETL with a data-quality report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "configs/fleximart.yaml", "job config file (JSON or YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logs")

	root.AddCommand(newRunCmd(opts), newValidateCmd(opts), newProbeCmd(opts))
	return root
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the job configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			if err := reportIssues(cmd, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", opts.cfgPath)
			return nil
		},
	}
}

func newProbeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Read the configured inputs and report missing columns and blank values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			provider, err := pipeline.BuildProvider(cmd.Context(), p.Sources, nil)
			if err != nil {
				return err
			}
			results, err := probe.Run(cmd.Context(), provider)
			if err != nil {
				return err
			}
			probe.Render(cmd.OutOrStdout(), results)
			for _, r := range results {
				if !r.OK() {
					return fmt.Errorf("%s: missing columns %v", r.Input, r.Missing)
				}
			}
			return nil
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var metricsBackend, pushGatewayURL string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the batch job once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			if err := reportIssues(cmd, p); err != nil {
				return err
			}
			// Flags win over the file and ETL_METRICS_* env.
			if cmd.Flags().Changed("metrics-backend") {
				p.Metrics.Backend = metricsBackend
			}
			if cmd.Flags().Changed("pushgateway-url") {
				p.Metrics.PushgatewayURL = pushGatewayURL
			}

			log, err := logging.New(opts.verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = log.Sync() }()
			zap.ReplaceGlobals(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runJob(ctx, p, log)
		},
	}
	cmd.Flags().StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (none, pushgateway, datadog); overrides metrics.backend")
	cmd.Flags().StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL; overrides metrics.pushgateway_url")
	return cmd
}

// reportIssues prints every config finding and fails on errors.
func reportIssues(cmd *cobra.Command, p config.Pipeline) error {
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	return nil
}

// runJob is a variable so tests can run the CLI without a database.
var runJob = func(ctx context.Context, p config.Pipeline, log *zap.Logger) error {
	flush := initMetrics(p.Metrics, p.Job, log)
	defer flush()

	if p.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Runtime.Timeout)
		defer cancel()
	}

	r, cleanup, err := pipeline.Build(ctx, p, log)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = r.Run(ctx)
	return err
}
