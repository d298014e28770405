package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/patterns/internal/app"
	"github.com/nfrund/patterns/internal/config"
	"github.com/nfrund/patterns/internal/logging"
)

// runtime carries the container built before any subcommand runs.
type runtime struct {
	container *app.Container
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "patterns-cli",
		Short: "Patterns CLI tool",
		Long: `Patterns CLI exercises the event registry and its companion packages.

Available commands:
  pubsub     Subscribe, unsubscribe and publish on the event registry
  memo       Call a memoized arithmetic function
  light      Press the light switch
  cities     Render the city map through the data adapter
  version    Print the version

Configuration is read from the environment and an optional .env file
(LOG_FORMAT, LOG_LEVEL, MEMO_CACHE_SIZE, SCRIPT_TIMEOUT, BRIDGE_ENABLED).

Use "patterns-cli [command] --help" for more information about a specific command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			rt.container = app.New(cfg)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt.container == nil {
				return nil
			}
			return rt.container.Close()
		},
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPubSubCmd(rt),
		newMemoCmd(rt),
		newLightCmd(rt),
		newCitiesCmd(),
	)
	return rootCmd
}

// Execute executes the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
