package cmd

import (
	"context"

	"github.com/IvanTurko/mockability-sdk-go/adapter/simple"
	"github.com/IvanTurko/mockability-sdk-go/internal/config"
	"github.com/IvanTurko/mockability-sdk-go/mockability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simpleClient = mockability.Client[*simple.Request, *simple.Response]

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
	client     *simpleClient
}

// NewRootCmd builds the mockability command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		SilenceUsage:  true,
		SilenceErrors: true,
		Use:           "mockability [command]",
		Short:         "Drive a mockability server from the command line",
		Long: `Prepare canned responses on a mockability server, read back the requests
it recorded, and clear what it holds.`,
		Example: `  mockability clear
  mockability clear GET /wiggle
  mockability prepare GET /wiggle --status 503 --header gurble:flop --body biggety-boo
  mockability report GET /wiggle

  # Settings may also come from MOCKABILITY_BASE_URL, MOCKABILITY_TIMEOUT,
  # MOCKABILITY_VERBOSE, MOCKABILITY_LOG_LEVEL or a --config file:
  base_url: http://localhost:9000
  timeout: 5s`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Path to a config file (yaml, json or toml)")
	pf.String("base-url", config.DefaultBaseURL, "Base URL of the mockability server")
	pf.Duration("timeout", config.DefaultTimeout, "Timeout for each call to the server")
	pf.BoolP("verbose", "v", false, "Show verbose debug information")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")

	root.AddCommand(newClearCmd(a))
	root.AddCommand(newPrepareCmd(a))
	root.AddCommand(newReportCmd(a))
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags(), a.configFile)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	client, err := mockability.NewSimple(cfg.BaseURL,
		mockability.WithTimeout(cfg.Timeout),
		mockability.WithLogger(logger.Sugar()),
	)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.client = client
	logger.Debug("configured", zap.String("base_url", client.BaseURL()), zap.Duration("timeout", cfg.Timeout))
	return nil
}
