package config

import "time"

// Common constants shared between daemon and client
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "wiz"

	// DaemonConfigFilename is the base filename for the shared config. wizctl reads and
	// writes the same bulb list as wizd.
	DaemonConfigFilename = "wizd.yaml"

	// EnvPrefix is prepended to every environment override, e.g. WIZ_LOGGING_LEVEL
	EnvPrefix = "WIZ"

	// DefaultAPIListenAddress is the default HTTP API listen address
	DefaultAPIListenAddress = "127.0.0.1:9138"

	// DefaultRequestsPerMinute is the per-IP HTTP rate limit; zero disables it
	DefaultRequestsPerMinute = 600

	// PlaceholderBulbName names the bulb created on first run
	PlaceholderBulbName = "Living Room"
)

// Protocol defaults, in milliseconds as they appear in the config file
const (
	DefaultProtocolPort      = 38899
	DefaultProtocolTimeoutMS = 500
	DefaultDebounceMS        = 500
)

// Default timeouts and intervals
const (
	// DefaultDiscoveryTimeout is the broadcast collection window
	DefaultDiscoveryTimeout = 2 * time.Second

	// DefaultDiscoveryInterval disables periodic discovery
	DefaultDiscoveryInterval = time.Duration(0)

	// MinDiscoveryInterval is the minimum allowed periodic discovery interval
	MinDiscoveryInterval = 5 * time.Second

	// DefaultMonitorInterval is how often widget bulbs are polled
	DefaultMonitorInterval = 30 * time.Second

	// MinMonitorInterval is the minimum allowed poll interval
	MinMonitorInterval = time.Second
)

// watchSettle is how long the config watcher waits for a burst of file events to end
const watchSettle = 100 * time.Millisecond

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
