package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/events"
	"github.com/jmylchreest/wizlightd/internal/utils"
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wizctl",
		Short:         "Control WiZ bulbs on the local network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Tests inject their own environment
			if _, err := getEnv(cmd); err == nil {
				return nil
			}
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(WithEnv(cmd.Context(), env))
			return nil
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Path to config file (shared with wizd)")
	cmd.PersistentFlags().String("log-level", config.LogLevelWarn, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(newPowerCommand(true))
	cmd.AddCommand(newPowerCommand(false))
	cmd.AddCommand(newBrightnessCommand())
	cmd.AddCommand(newTemperatureCommand())
	cmd.AddCommand(newColorCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newDiscoverCommand())
	cmd.AddCommand(newKelvinCommand())
	cmd.AddCommand(NewBulbCommand())

	return cmd
}

// newEnv loads the shared config file and builds the client and bulb store from it
func newEnv(cmd *cobra.Command) (*Env, error) {
	flags := cmd.Root().PersistentFlags()
	level, _ := flags.GetString("log-level")
	format, _ := flags.GetString("log-format")
	configFile, _ := flags.GetString("config")

	logger := utils.SetupLogger(utils.ValidateLogLevel(level), utils.ValidateLogFormat(format))
	utils.SetAsDefaultLogger(logger)

	cfg, err := config.Load(config.DaemonConfigFilename, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Env{
		Logger:           logger,
		Client:           bulb.NewClient(logger, cfg),
		Store:            bulb.NewStore(logger, cfg, events.NewBus()),
		DiscoveryTimeout: cfg.Discovery.Timeout,
	}, nil
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config or client needed
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wizctl:\n")
			fmt.Printf("  Version:    %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
