package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// getLoggerFromCmd returns the slog.Logger from the command environment
func getLoggerFromCmd(cmd *cobra.Command) *slog.Logger {
	if env, err := getEnv(cmd); err == nil && env.Logger != nil {
		return env.Logger
	}
	return slog.Default()
}
