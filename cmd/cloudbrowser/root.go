package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/config"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/cloudbrowser/internal/logging"
	"github.com/GriffinCanCode/cloudbrowser/internal/service"
	"github.com/GriffinCanCode/cloudbrowser/internal/transport"
)

var errNoToken = errors.New("no token: set CLOUDBROWSER_TOKEN or pass --token")

// globalFlags override the environment.
type globalFlags struct {
	token    string
	baseURL  string
	timeout  time.Duration
	logLevel string
	dev      bool
	metrics  bool
	json     bool
}

// app holds what every command needs, built once per run.
type app struct {
	flags    globalFlags
	out      io.Writer
	errOut   io.Writer
	logger   *logging.Logger
	registry *prometheus.Registry
	tracer   *tracing.Tracer
	svc      *service.Service
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "cloudbrowser",
		Short:         "Open and manage remote browser sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.token, "token", "", "API token (default $CLOUDBROWSER_TOKEN)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "service origin (default $CLOUDBROWSER_BASE_URL)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-call timeout (default $CLOUDBROWSER_TIMEOUT)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")
	pf.BoolVar(&a.flags.dev, "dev", false, "human readable logs")
	pf.BoolVar(&a.flags.metrics, "metrics", false, "print call metrics to stderr on exit")
	pf.BoolVar(&a.flags.json, "json", false, "print results as JSON")

	root.AddCommand(
		a.openCmd(),
		a.launchCmd(),
		a.listCmd(),
		a.closeCmd(),
		a.rdpCmd(),
	)
	a.finishAfter(root)
	return root
}

// finishAfter wraps every RunE under cmd so finish runs whether or not the
// command failed. Cobra skips post-run hooks after an error.
func (a *app) finishAfter(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		a.finishAfter(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if ferr := a.finish(); err == nil {
				err = ferr
			}
		}()
		return run(cmd, args)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.API.Token = a.flags.token
	}
	if flags.Changed("base-url") {
		cfg.API.BaseURL = a.flags.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Transport.Timeout = a.flags.timeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = a.flags.dev
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.API.Token == "" {
		return errNoToken
	}

	a.logger, err = logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(a.registry)
	a.tracer = tracing.New("cloudbrowser", a.logger.Logger)

	tc := transport.New(transport.ConfigFrom(cfg),
		transport.WithLogger(a.logger.Logger),
		transport.WithMetrics(metrics))
	client := api.New(tc,
		api.WithLogger(a.logger.Logger),
		api.WithMetrics(metrics),
		api.WithTracer(a.tracer))
	a.svc = service.New(cfg.API.Token, client)

	a.logger.Debug("client ready",
		zap.String("base_url", tc.BaseURL()),
		zap.Duration("timeout", tc.DefaultTimeout()))
	return nil
}

func (a *app) finish() error {
	a.tracer.Close()
	if a.flags.metrics && a.registry != nil {
		if err := writeMetrics(a.errOut, a.registry); err != nil {
			return err
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
