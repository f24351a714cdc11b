package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// EnvContextKey is used for storing the command environment in context.
// The root command stores it before any subcommand runs; tests store it directly.
var EnvContextKey = &struct{}{}

// BulbClient is the part of wiz.Client the commands use
type BulbClient interface {
	SetPower(ctx context.Context, host string, on bool) error
	SetBrightness(ctx context.Context, host string, percent float64) error
	SetTemperature(ctx context.Context, host string, kelvin float64) error
	SetColor(ctx context.Context, host string, r, g, b int, percent float64) error
	GetStatus(ctx context.Context, host string) (*wiz.DeviceStatus, error)
	Discover(ctx context.Context, timeout time.Duration) []string
}

var _ BulbClient = (*wiz.Client)(nil)

// Env is what every command needs: a client for the bulbs and the configured bulb list
type Env struct {
	Logger           *slog.Logger
	Client           BulbClient
	Store            *bulb.Store
	DiscoveryTimeout time.Duration
}

// WithEnv returns a copy of ctx carrying env
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, EnvContextKey, env)
}

func getEnv(cmd *cobra.Command) (*Env, error) {
	if env, ok := cmd.Context().Value(EnvContextKey).(*Env); ok && env != nil {
		return env, nil
	}
	return nil, fmt.Errorf("command environment not initialised")
}
