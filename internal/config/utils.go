package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetConfigBaseDir returns the base directory for configuration files
func GetConfigBaseDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		// The system service points XDG_CONFIG_HOME straight at its own directory
		if dir == "/etc/wizd" {
			return dir
		}
		return filepath.Join(dir, ConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetConfigPath returns the full path to a configuration file
func GetConfigPath(filename string) string {
	return filepath.Join(GetConfigBaseDir(), filename)
}

// GetDaemonConfigPath returns the full path to the shared configuration file
func GetDaemonConfigPath() string {
	return GetConfigPath(DaemonConfigFilename)
}

// ValidateDiscoveryInterval returns zero (disabled) for non-positive intervals and
// otherwise clamps to MinDiscoveryInterval
func ValidateDiscoveryInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	if interval < MinDiscoveryInterval {
		return MinDiscoveryInterval
	}
	return interval
}

// ValidateMonitorInterval falls back to DefaultMonitorInterval for non-positive intervals
// and clamps to MinMonitorInterval
func ValidateMonitorInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultMonitorInterval
	}
	if interval < MinMonitorInterval {
		return MinMonitorInterval
	}
	return interval
}
