// Package config handles all configuration management for patternforge.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (PATTERNFORGE_*)
// 3. Configuration file (.patternforge.yaml)
// 4. Default values (lowest priority)
package config

import (
	"time"

	"github.com/patternforge/patternforge/internal/rules"
)

// Config is the main configuration structure for patternforge.
// It contains all settings needed to compile a rule catalog and run the
// rule processor against a set of files.
type Config struct {
	// Rules configures the rule catalog: where it is loaded from and
	// which rules are enabled.
	Rules RulesConfig `mapstructure:"rules" yaml:"rules"`

	// Processor configures Rule Processor runtime behavior (spec §4.6).
	Processor ProcessorConfig `mapstructure:"processor" yaml:"processor"`

	// Output configures the thin CLI output surface.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Cache configures the persistent compiled-catalog cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Telemetry configures optional OpenTelemetry tracing around
	// compilation and per-file analysis.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// RulesConfig configures the rule catalog.
type RulesConfig struct {
	// RulesDir is the directory containing custom rule files (JSON/YAML),
	// layered on top of the embedded default catalog.
	RulesDir string `mapstructure:"rules_dir" yaml:"rules_dir"`

	// InheritFrom lists parent catalog sources (local paths or HTTPS
	// URLs), lowest priority first, merged via rules.HierarchicalLoader.
	InheritFrom []string `mapstructure:"inherit_from" yaml:"inherit_from"`

	// Enabled is the list of rule IDs to force-enable after merge (empty
	// = leave catalog defaults).
	Enabled []string `mapstructure:"enabled" yaml:"enabled"`

	// Disabled is the list of rule IDs to force-disable after merge.
	Disabled []string `mapstructure:"disabled" yaml:"disabled"`

	// RemoteRPS bounds requests/second issued while fetching InheritFrom
	// sources that are HTTPS URLs.
	RemoteRPS int `mapstructure:"remote_rps" yaml:"remote_rps"`
}

// ProcessorConfig mirrors the Rule Processor's runtime options (spec
// §4.6's options table).
type ProcessorConfig struct {
	// ConfidenceFilter is a comma-separated list of accepted confidences:
	// "low", "medium", "high". Default: "medium,high".
	ConfidenceFilter []string `mapstructure:"confidence_filter" yaml:"confidence_filter"`

	// AllowAllTagsInBuildFiles accepts every tag even in files whose
	// language file type is "build" (e.g. Dockerfile, Makefile).
	AllowAllTagsInBuildFiles bool `mapstructure:"allow_all_tags_in_build_files" yaml:"allow_all_tags_in_build_files"`

	// UniqueTagsOnly enables tags-only de-dup: one witness match per tag.
	UniqueTagsOnly bool `mapstructure:"unique_tags_only" yaml:"unique_tags_only"`

	// UniqueTagExceptions are dotted-path tag prefixes exempt from
	// tags-only de-dup.
	UniqueTagExceptions []string `mapstructure:"unique_tag_exceptions" yaml:"unique_tag_exceptions"`

	// ContextLines is the excerpt window on either side of a match.
	// -1 disables excerpt extraction.
	ContextLines int `mapstructure:"context_lines" yaml:"context_lines"`

	// TreatEverythingAsCode forces ScopeMatch to always accept,
	// bypassing comment-scope filtering entirely.
	TreatEverythingAsCode bool `mapstructure:"treat_everything_as_code" yaml:"treat_everything_as_code"`

	// Parallel allows concurrent per-file evaluation via the worker pool.
	Parallel bool `mapstructure:"parallel" yaml:"parallel"`

	// FileTimeoutMS aborts a single file's analysis after this many
	// milliseconds. 0 disables the timeout.
	FileTimeoutMS int `mapstructure:"file_timeout_ms" yaml:"file_timeout_ms"`

	// EnclosingSymbol enables the structure package's function/class
	// boundary lookup to populate MatchRecord.EnclosingSymbol.
	EnclosingSymbol bool `mapstructure:"enclosing_symbol" yaml:"enclosing_symbol"`

	// Workers is the worker pool size used when Parallel is true. 0
	// defaults to GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// OutputConfig configures the CLI's output surface: raw JSON match
// records, nothing more. Report formatting (markdown/SARIF/HTML) is an
// external collaborator's responsibility per spec §1.
type OutputConfig struct {
	// File is the output file path (empty = stdout).
	File string `mapstructure:"file" yaml:"file"`

	// Pretty pretty-prints the JSON output.
	Pretty bool `mapstructure:"pretty" yaml:"pretty"`

	// Verbose enables detailed log output.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// Quiet suppresses all output except errors.
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
}

// CacheConfig configures the persistent compiled-catalog cache
// (internal/rulecache), backed by BadgerDB.
type CacheConfig struct {
	// Enabled enables the compiled-catalog cache.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Dir is the cache directory.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// TTL is the cache entry time-to-live.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`

	// MaxSizeMB bounds the Badger value log size.
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// GCInterval is the period between Badger value-log GC passes.
	GCInterval time.Duration `mapstructure:"gc_interval" yaml:"gc_interval"`
}

// TelemetryConfig configures the optional tracing wrapper
// (internal/telemetry). Disabled by default: the library never requires
// a collector to function.
type TelemetryConfig struct {
	// Enabled turns on span creation around compilation and per-file
	// analysis. The tracer provider itself is whatever the process has
	// globally registered; patternforge ships no exporter.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ServiceName labels spans when Enabled.
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// ToConfidenceFilter converts the wire list of confidence names into the
// bitmask the Rule Processor consumes, defaulting to
// rules.DefaultConfidenceFilter when the list is empty.
func (p ProcessorConfig) ToConfidenceFilter() rules.ConfidenceFilter {
	if len(p.ConfidenceFilter) == 0 {
		return rules.DefaultConfidenceFilter
	}
	var f rules.ConfidenceFilter
	for _, v := range p.ConfidenceFilter {
		f = rules.ConfidenceFilter(int(f) | int(rules.ParseConfidence(v)))
	}
	return f
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	for _, v := range c.Processor.ConfidenceFilter {
		switch v {
		case "low", "medium", "high":
		default:
			return &ValidationError{Field: "processor.confidence_filter", Message: "must be one of: low, medium, high, got " + v}
		}
	}

	if c.Processor.ContextLines < -1 {
		return &ValidationError{Field: "processor.context_lines", Message: "must be -1 (disabled) or >= 0"}
	}

	if c.Processor.FileTimeoutMS < 0 {
		return &ValidationError{Field: "processor.file_timeout_ms", Message: "must be >= 0"}
	}

	if c.Cache.Enabled && c.Cache.Dir == "" {
		return &ValidationError{Field: "cache.dir", Message: "cache directory is required when cache is enabled"}
	}

	for _, src := range c.Rules.InheritFrom {
		if src == "" {
			return &ValidationError{Field: "rules.inherit_from", Message: "entries must not be empty"}
		}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}
