// prtgcli/cmd/prtgcli/root.go

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rgehrsitz/prtgcli/pkg/format"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/prtg"
	"rgehrsitz/prtgcli/pkg/store"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	// ExitCodeError indicates a failed command: remote, cache or usage errors.
	ExitCodeError = 1
	// ExitCodeConfig indicates bad configuration or malformed rules.
	ExitCodeConfig = 2
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configFile string
	logLevel   string
	logOutput  string

	config  *Config
	clients ClientFactory
	stores  StoreFactory
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, clients ClientFactory, stores StoreFactory) int {
	root := newRootCmd(clients, stores)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		logging.LogError(logging.Logger, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return getExitCode(err)
	}
	return ExitCodeSuccess
}

func getExitCode(err error) int {
	if logging.IsConfigurationError(err) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func newRootCmd(clients ClientFactory, stores StoreFactory) *cobra.Command {
	a := &app{clients: clients, stores: stores}

	root := &cobra.Command{
		Use:   "prtgcli",
		Short: "Command line interface for PRTG",
		Long: `prtgcli lists PRTG devices and sensors, shows the server status and
bulk-updates object properties from a rule set.

Credentials are read from PRTGENDPOINT, PRTGUSERNAME and PRTGPASSWORD
(or PRTGPASSHASH).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to configuration file")
	flags.StringVarP(&a.logLevel, "level", "l", "", "Logging level (debug, info, warn, error)")
	flags.StringVar(&a.logOutput, "log-output", "", "Logging output (console, json, file)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.init(map[string]*pflag.Flag{
			"logging.level":  changed(flags.Lookup("level")),
			"logging.output": changed(flags.Lookup("log-output")),
		})
	}

	root.AddCommand(
		newLsCmd(a),
		newStatusCmd(a),
		newRefreshCmd(a),
		newUpdateCmd(a),
		newCommitCmd(a),
		newWatchCmd(a),
	)
	return root
}

// changed drops flags the user did not set so config file values win over
// empty flag defaults.
func changed(f *pflag.Flag) *pflag.Flag {
	if f == nil || !f.Changed {
		return nil
	}
	return f
}

func (a *app) init(flags map[string]*pflag.Flag) error {
	cfg, err := loadConfig(a.configFile, flags)
	if err != nil {
		return err
	}
	if err := logging.ConfigureLogger(cfg.LogLevel, cfg.LogOutput); err != nil {
		return logging.NewError(logging.ErrorTypeConfig, "failed to configure logger", err, nil)
	}
	a.config = cfg
	return nil
}

// openStore connects to the cache when it is enabled. It returns a nil store
// otherwise.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if !a.config.CacheEnabled {
		return nil, nil
	}
	return a.stores.NewStore(ctx, a.config.StoreOptions())
}

// requireStore is openStore for commands that cannot run without the cache.
func (a *app) requireStore(ctx context.Context, command string) (store.Store, error) {
	if !a.config.CacheEnabled {
		return nil, logging.ConfigError(fmt.Sprintf("%s needs the cache (set cache.enabled)", command), nil)
	}
	return a.stores.NewStore(ctx, a.config.StoreOptions())
}

// openClient builds the remote client, wrapped in the cache when s is set.
func (a *app) openClient(s store.Store) (prtg.Client, error) {
	c, err := a.clients.NewClient(a.config.ClientConfig())
	if err != nil {
		return nil, err
	}
	if s == nil {
		return c, nil
	}
	return prtg.NewCachedClient(c, s), nil
}

func (a *app) formatOptions(mode, sortColumn string) format.Options {
	return format.Options{
		Mode:       format.Mode(mode),
		SortColumn: sortColumn,
		Denylist:   a.config.Denylist,
		Delimiter:  a.config.Delimiter,
	}
}

func closeStore(s store.Store) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		logging.Logger.Warn().Err(err).Msg("Failed to close store")
	}
}
