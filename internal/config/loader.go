package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const configFileName = ".patternforge.yaml"

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName(".patternforge")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")                 // Current directory (highest priority)
	v.AddConfigPath("$HOME")             // Home directory
	v.AddConfigPath("/etc/patternforge") // System config (lowest priority)

	v.SetEnvPrefix("PATTERNFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile sets a specific config file to use.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
	l.v.SetConfigFile(path)
}

// Load loads the configuration from all sources.
// Priority (highest to lowest):
// 1. Explicit config file (if set via SetConfigFile)
// 2. Environment variables (PATTERNFORGE_*)
// 3. Config file from search paths (.patternforge.yaml)
// 4. Default values
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setDefaults(cfg)

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("rules.rules_dir", cfg.Rules.RulesDir)
	l.v.SetDefault("rules.inherit_from", cfg.Rules.InheritFrom)
	l.v.SetDefault("rules.enabled", cfg.Rules.Enabled)
	l.v.SetDefault("rules.disabled", cfg.Rules.Disabled)
	l.v.SetDefault("rules.remote_rps", cfg.Rules.RemoteRPS)

	l.v.SetDefault("processor.confidence_filter", cfg.Processor.ConfidenceFilter)
	l.v.SetDefault("processor.allow_all_tags_in_build_files", cfg.Processor.AllowAllTagsInBuildFiles)
	l.v.SetDefault("processor.unique_tags_only", cfg.Processor.UniqueTagsOnly)
	l.v.SetDefault("processor.unique_tag_exceptions", cfg.Processor.UniqueTagExceptions)
	l.v.SetDefault("processor.context_lines", cfg.Processor.ContextLines)
	l.v.SetDefault("processor.treat_everything_as_code", cfg.Processor.TreatEverythingAsCode)
	l.v.SetDefault("processor.parallel", cfg.Processor.Parallel)
	l.v.SetDefault("processor.file_timeout_ms", cfg.Processor.FileTimeoutMS)
	l.v.SetDefault("processor.enclosing_symbol", cfg.Processor.EnclosingSymbol)
	l.v.SetDefault("processor.workers", cfg.Processor.Workers)

	l.v.SetDefault("output.file", cfg.Output.File)
	l.v.SetDefault("output.pretty", cfg.Output.Pretty)
	l.v.SetDefault("output.verbose", cfg.Output.Verbose)
	l.v.SetDefault("output.quiet", cfg.Output.Quiet)

	l.v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	l.v.SetDefault("cache.dir", cfg.Cache.Dir)
	l.v.SetDefault("cache.ttl", cfg.Cache.TTL)
	l.v.SetDefault("cache.max_size_mb", cfg.Cache.MaxSizeMB)
	l.v.SetDefault("cache.gc_interval", cfg.Cache.GCInterval)

	l.v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	l.v.SetDefault("telemetry.service_name", cfg.Telemetry.ServiceName)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

// LoadDefault loads configuration with default search paths.
func LoadDefault() (*Config, error) {
	loader := NewLoader()
	return loader.Load()
}

// MustLoad loads configuration and panics on error.
// Use only in main() or init() functions.
func MustLoad() *Config {
	cfg, err := LoadDefault()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// FindConfigFile searches for a config file and returns its path.
// Returns empty string if no config file is found.
func FindConfigFile() string {
	if _, err := os.Stat(configFileName); err == nil {
		if abs, err := filepath.Abs(configFileName); err == nil {
			return abs
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	etcPath := "/etc/patternforge/" + configFileName
	if _, err := os.Stat(etcPath); err == nil {
		return etcPath
	}

	return ""
}
