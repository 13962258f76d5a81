package cmd

import (
	"os"

	"archon/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	fs       afero.Fs = afero.NewOsFs()
	cfg      *config.Config
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "archon",
	Short: "Archon rules engine and AI",
	Long: `Archon is a turn based strategy engine on a 9x9 board with a light cycle.

Available commands:
  play        Play an AI vs AI match
  experiment  Run self play experiments and store CSV metrics
  actions     List the allowed actions for a state
  validate    Validate a state and optionally an action
  apply       Apply an action to a state

Use "archon [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides ARCHON_LOG_LEVEL")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if envFile != "" {
		cfg, err = config.Load(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if logLevel != "" {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	return nil
}
