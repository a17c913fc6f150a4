// Package cmd implements the nftjson command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"grimm.is/nftjson/internal/brand"
	"grimm.is/nftjson/internal/config"
	"grimm.is/nftjson/internal/logging"
	"grimm.is/nftjson/internal/metrics"
	"grimm.is/nftjson/internal/nft"
)

// app carries state shared by subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string
	jsonLogs   bool

	cfg    *config.Config
	logger *logging.Logger

	// runner replaces the nft process runner; tests inject a mock.
	runner nft.CommandRunner
	// metrics, when set, observes every client the app creates.
	metrics *metrics.Registry
}

// Option customizes the root command.
type Option func(*app)

// WithRunner makes every nft invocation go through r.
func WithRunner(r nft.CommandRunner) Option {
	return func(a *app) { a.runner = r }
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{}
	for _, o := range opts {
		o(a)
	}

	root := &cobra.Command{
		Use:           brand.BinaryName,
		Short:         brand.Description,
		Version:       fmt.Sprintf("%s (%s)", brand.Version, brand.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", brand.DefaultConfigPath(), "configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	pf.BoolVar(&a.jsonLogs, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newDecodeCommand(a),
		newListCommand(a),
		newApplyCommand(a),
		newCheckCommand(a),
		newDiffCommand(a),
		newConfigCommand(a),
		newMetricsCommand(a),
		newHealthCommand(a),
	)
	return root
}

// setup loads the config file and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFileOrDefault(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc, err := cfg.LoggingConfig()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if lc.Level, err = logging.ParseLevel(a.logLevel); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-json") {
		lc.JSON = a.jsonLogs
	}
	lc.Output = cmd.ErrOrStderr()
	a.logger = logging.New(lc)
	logging.SetDefault(a.logger)
	return nil
}

// client builds an nft client from the loaded config.
func (a *app) client() *nft.Client {
	c := nft.New(a.cfg.ClientConfig())
	c.SetLogger(a.logger)
	if a.runner != nil {
		c.SetRunner(a.runner)
	}
	if a.metrics != nil {
		c.SetObserver(a.metrics)
	}
	return c
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Execute runs the command line with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
