package config

import (
	"bytes"
	"context"
	"crypto/sha256"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Protocol  ProtocolConfig  `mapstructure:"protocol"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	// Bulbs is the persisted bulb list, in display order
	Bulbs []BulbConfig `mapstructure:"bulbs"`

	mu      sync.Mutex
	path    string
	v       *viper.Viper
	written [sha256.Size]byte // digest of the file as last loaded or saved
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress     string `mapstructure:"listen_address"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// ProtocolConfig holds the UDP protocol settings
type ProtocolConfig struct {
	Port        int  `mapstructure:"port"`
	TimeoutMS   int  `mapstructure:"timeout_ms"`
	DebounceMS  int  `mapstructure:"debounce_ms"`
	Acknowledge bool `mapstructure:"acknowledge"`
}

// Timeout returns the unicast reply timeout
func (p ProtocolConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// Debounce returns the quiet period applied to color changes
func (p ProtocolConfig) Debounce() time.Duration {
	return time.Duration(p.DebounceMS) * time.Millisecond
}

// DiscoveryConfig represents the discovery configuration
type DiscoveryConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Interval time.Duration `mapstructure:"interval"` // zero disables periodic discovery
}

// MonitorConfig controls the widget status poller
type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BulbConfig is one persisted bulb
type BulbConfig struct {
	ID           string `mapstructure:"id"`
	Name         string `mapstructure:"name"`
	IP           string `mapstructure:"ip"`
	ShowInWidget bool   `mapstructure:"show_in_widget"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_address", DefaultAPIListenAddress)
	v.SetDefault("server.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("protocol.port", DefaultProtocolPort)
	v.SetDefault("protocol.timeout_ms", DefaultProtocolTimeoutMS)
	v.SetDefault("protocol.debounce_ms", DefaultDebounceMS)
	v.SetDefault("protocol.acknowledge", false)
	v.SetDefault("discovery.timeout", DefaultDiscoveryTimeout)
	v.SetDefault("discovery.interval", DefaultDiscoveryInterval)
	v.SetDefault("monitor.interval", DefaultMonitorInterval)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
}

// Load loads configuration from a file and environment variables. When configFile is
// empty the file configName is looked up in the XDG config directory. A missing file
// yields the defaults; an unreadable or malformed one is an error.
func Load(configName, configFile string) (*Config, error) {
	path := configFile
	if path == "" {
		path = GetConfigPath(configName)
	}
	return load(viper.New(), path)
}

// LoadWith loads configuration into an existing viper instance, so flags already bound
// to it take precedence over the file
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	path := configFile
	if path == "" {
		path = GetDaemonConfigPath()
	}
	return load(v, path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		slog.Debug("config: no config file, using defaults", "path", path)
		data = nil
	case err != nil:
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	default:
		slog.Info("config: using config file", "path", path)
	}
	cfg, err := decode(v, path, data)
	if err != nil {
		return nil, err
	}
	if data != nil {
		cfg.written = sha256.Sum256(data)
	}
	return cfg, nil
}

// decode builds a Config from raw file contents layered over defaults and environment
func decode(v *viper.Viper, path string, data []byte) (*Config, error) {
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if data != nil {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{path: path, v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}
	cfg.Discovery.Interval = ValidateDiscoveryInterval(cfg.Discovery.Interval)
	cfg.Monitor.Interval = ValidateMonitorInterval(cfg.Monitor.Interval)
	if cfg.Discovery.Timeout <= 0 {
		cfg.Discovery.Timeout = DefaultDiscoveryTimeout
	}
	return cfg, nil
}

// Path returns the file the configuration is read from and saved to
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration back to its file. Nothing is persisted implicitly.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.v == nil {
		c.v = viper.New()
		c.v.SetConfigType("yaml")
	}
	if c.path == "" {
		c.path = GetDaemonConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	c.v.Set("server.listen_address", c.Server.ListenAddress)
	c.v.Set("server.requests_per_minute", c.Server.RequestsPerMinute)
	c.v.Set("protocol.port", c.Protocol.Port)
	c.v.Set("protocol.timeout_ms", c.Protocol.TimeoutMS)
	c.v.Set("protocol.debounce_ms", c.Protocol.DebounceMS)
	c.v.Set("protocol.acknowledge", c.Protocol.Acknowledge)
	c.v.Set("discovery.timeout", c.Discovery.Timeout.String())
	c.v.Set("discovery.interval", c.Discovery.Interval.String())
	c.v.Set("monitor.interval", c.Monitor.Interval.String())
	c.v.Set("logging.level", c.Logging.Level)
	c.v.Set("logging.format", c.Logging.Format)

	bulbs := make([]map[string]any, 0, len(c.Bulbs))
	for _, b := range c.Bulbs {
		bulbs = append(bulbs, map[string]any{
			"id":             b.ID,
			"name":           b.Name,
			"ip":             b.IP,
			"show_in_widget": b.ShowInWidget,
		})
	}
	c.v.Set("bulbs", bulbs)

	// Write a sibling file and rename it over the target so a concurrent reader
	// never sees a truncated file
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+filepath.Base(c.path)+".*.yaml")
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	if err := c.v.WriteConfigAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error writing config file: %w", err)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error writing config file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error writing config file: %w", err)
	}
	c.written = sha256.Sum256(data)
	slog.Debug("config: saved", "path", c.path, "bulbs", len(c.Bulbs))
	return nil
}

// Reload reads the configuration file again into a fresh Config
func (c *Config) Reload() (*Config, error) {
	return load(viper.New(), c.path)
}

// reloadChanged re-reads the file and returns nil when its contents match what this
// Config last loaded or saved
func (c *Config) reloadChanged() (*Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", c.path, err)
	}
	sum := sha256.Sum256(data)
	if sum == c.written {
		return nil, nil
	}
	next, err := decode(viper.New(), c.path, data)
	if err != nil {
		return nil, err
	}
	c.written = sum
	next.written = sum
	return next, nil
}

// Watch calls onChange with a freshly loaded Config each time the file is changed by
// another writer. Writes made through Save on this Config are not reported. Bursts of
// events are coalesced and Watch returns once the watcher is running; it stops when
// ctx is done.
func (c *Config) Watch(ctx context.Context, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating config watcher: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return fmt.Errorf("error creating config directory: %w", err)
	}
	// Editors replace files rather than writing in place, so watch the directory
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("error watching %s: %w", dir, err)
	}

	target := filepath.Clean(c.path)
	go func() {
		defer watcher.Close()
		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				settle = time.After(watchSettle)
			case <-settle:
				settle = nil
				next, err := c.reloadChanged()
				if err != nil {
					slog.Warn("config: reload failed", "path", c.path, "error", err)
					continue
				}
				if next == nil {
					continue
				}
				slog.Info("config: reloaded", "path", c.path)
				onChange(next)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config: watcher error", "error", err)
			}
		}
	}()
	return nil
}
