package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/events"
	"github.com/jmylchreest/wizlightd/internal/http/handlers"
	"github.com/jmylchreest/wizlightd/internal/metrics"
	"github.com/jmylchreest/wizlightd/internal/server"
	"github.com/jmylchreest/wizlightd/internal/utils"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "wizd:", err)
		os.Exit(1)
	}
}

// newFlags declares the daemon's flags and binds them onto v so they override the file
func newFlags(v *viper.Viper) *pflag.FlagSet {
	flags := pflag.NewFlagSet("wizd", pflag.ContinueOnError)
	flags.String("log-level", config.LogLevelInfo, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.LogFormatText, "Log format (text, json)")
	flags.String("config", "", "Path to config file")
	flags.String("listen", config.DefaultAPIListenAddress, "HTTP API listen address; empty disables the API")
	flags.Duration("discovery-interval", config.DefaultDiscoveryInterval, "Periodic discovery interval; 0 disables it")
	flags.Bool("acknowledge", false, "Wait for bulbs to acknowledge control commands")

	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = v.BindPFlag("server.listen_address", flags.Lookup("listen"))
	_ = v.BindPFlag("discovery.interval", flags.Lookup("discovery-interval"))
	_ = v.BindPFlag("protocol.acknowledge", flags.Lookup("acknowledge"))
	return flags
}

// run starts the daemon and blocks until ctx is cancelled
func run(ctx context.Context, args []string, stderr io.Writer) error {
	v := viper.New()
	flags := newFlags(v)
	if err := flags.Parse(args); err != nil {
		return err
	}
	configPath, _ := flags.GetString("config")

	cfg, err := config.LoadWith(v, configPath)
	if err != nil {
		utils.SetupErrorLogger(stderr).Error("failed to load configuration", "error", err)
		return err
	}

	logger := utils.NewLogger(stderr,
		utils.ValidateLogLevel(cfg.Logging.Level),
		utils.ValidateLogFormat(cfg.Logging.Format))
	utils.SetAsDefaultLogger(logger)

	logger.Info("Starting wizd",
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
		"config", cfg.Path(),
	)

	bus := events.NewBus()
	observer := metrics.NewCallObserver()
	client := bulb.NewClient(logger, cfg, wiz.WithObserver(observer))
	store := bulb.NewStore(logger, cfg, bus)
	if store.EnsurePlaceholder() || store.NeedsSave() {
		if err := store.Save(); err != nil {
			logger.Warn("Failed to save bulb list", "error", err)
		}
	}
	controller := bulb.NewController(logger, store, client, bus, cfg.Protocol.Debounce())

	registry := metrics.Registry(version, observer, metrics.NewBulbCollector(controller, cfg.Protocol.Timeout()))
	srv := server.New(logger, cfg, controller, bus, server.Options{
		Version:  handlers.VersionInfo{Version: version, Commit: commit, BuildDate: buildDate},
		Registry: registry,
	})
	if err := srv.Start(); err != nil {
		logger.Error("Failed to start server", "error", err)
		return err
	}

	<-ctx.Done()
	logger.Info("Shutting down...")
	srv.Stop()
	return nil
}
