package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns a Config with sensible default values: embedded
// rules only, medium/high confidence, a 3-line excerpt window, and the
// catalog cache enabled under the user's cache directory.
func DefaultConfig() *Config {
	cacheDir := defaultCacheDir()

	return &Config{
		Rules:     defaultRulesConfig(),
		Processor: defaultProcessorConfig(),
		Output:    defaultOutputConfig(),
		Cache:     defaultCacheConfig(cacheDir),
		Telemetry: defaultTelemetryConfig(),
	}
}

// defaultCacheDir returns the default cache directory path.
func defaultCacheDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".cache", "patternforge")
}

func defaultRulesConfig() RulesConfig {
	return RulesConfig{
		RemoteRPS: 4,
	}
}

func defaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		ConfidenceFilter: []string{"medium", "high"},
		ContextLines:     3,
		Parallel:         true,
		FileTimeoutMS:    5000,
		Workers:          0,
	}
}

func defaultOutputConfig() OutputConfig {
	return OutputConfig{
		Pretty:  true,
		Verbose: false,
		Quiet:   false,
	}
}

func defaultCacheConfig(cacheDir string) CacheConfig {
	return CacheConfig{
		Enabled:    true,
		Dir:        filepath.Join(cacheDir, "catalog"),
		TTL:        24 * time.Hour,
		MaxSizeMB:  64,
		GCInterval: 5 * time.Minute,
	}
}

func defaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:     false,
		ServiceName: "patternforge",
	}
}
