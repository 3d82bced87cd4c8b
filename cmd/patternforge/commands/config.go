package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patternforge/patternforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage patternforge configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration, including values from
config file, environment variables, and defaults.

Examples:
  # Show config in YAML format
  patternforge config show

  # Show config as JSON
  patternforge config show --json`,

	RunE: runConfigShow,
}

var (
	configShowJSON bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()

	// Use config file from flag if provided
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Show config file location
	if !isQuiet() {
		if configFile := loader.ConfigFileUsed(); configFile != "" {
			fmt.Printf("# Config file: %s\n\n", configFile)
		} else {
			fmt.Println("# No config file found, using defaults")
			fmt.Println()
		}
	}

	if configShowJSON {
		return outputConfigJSON(cfg)
	}

	return outputConfigYAML(cfg)
}

func outputConfigJSON(cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputConfigYAML(cfg *config.Config) error {
	fmt.Println("rules:")
	fmt.Printf("  rules_dir: %s\n", cfg.Rules.RulesDir)
	fmt.Printf("  remote_rps: %d\n", cfg.Rules.RemoteRPS)
	if len(cfg.Rules.InheritFrom) > 0 {
		fmt.Println("  inherit_from:")
		for _, src := range cfg.Rules.InheritFrom {
			fmt.Printf("    - %s\n", src)
		}
	}
	if len(cfg.Rules.Enabled) > 0 {
		fmt.Printf("  enabled: %v\n", cfg.Rules.Enabled)
	}
	if len(cfg.Rules.Disabled) > 0 {
		fmt.Printf("  disabled: %v\n", cfg.Rules.Disabled)
	}

	fmt.Println("\nprocessor:")
	fmt.Printf("  confidence_filter: %v\n", cfg.Processor.ConfidenceFilter)
	fmt.Printf("  allow_all_tags_in_build_files: %v\n", cfg.Processor.AllowAllTagsInBuildFiles)
	fmt.Printf("  unique_tags_only: %v\n", cfg.Processor.UniqueTagsOnly)
	if len(cfg.Processor.UniqueTagExceptions) > 0 {
		fmt.Printf("  unique_tag_exceptions: %v\n", cfg.Processor.UniqueTagExceptions)
	}
	fmt.Printf("  context_lines: %d\n", cfg.Processor.ContextLines)
	fmt.Printf("  treat_everything_as_code: %v\n", cfg.Processor.TreatEverythingAsCode)
	fmt.Printf("  parallel: %v\n", cfg.Processor.Parallel)
	fmt.Printf("  file_timeout_ms: %d\n", cfg.Processor.FileTimeoutMS)
	fmt.Printf("  enclosing_symbol: %v\n", cfg.Processor.EnclosingSymbol)
	fmt.Printf("  workers: %d\n", cfg.Processor.Workers)

	fmt.Println("\noutput:")
	fmt.Printf("  file: %s\n", cfg.Output.File)
	fmt.Printf("  pretty: %v\n", cfg.Output.Pretty)
	fmt.Printf("  verbose: %v\n", cfg.Output.Verbose)
	fmt.Printf("  quiet: %v\n", cfg.Output.Quiet)

	fmt.Println("\ncache:")
	fmt.Printf("  enabled: %v\n", cfg.Cache.Enabled)
	fmt.Printf("  dir: %s\n", cfg.Cache.Dir)
	fmt.Printf("  ttl: %s\n", cfg.Cache.TTL)
	fmt.Printf("  max_size_mb: %d\n", cfg.Cache.MaxSizeMB)
	fmt.Printf("  gc_interval: %s\n", cfg.Cache.GCInterval)

	fmt.Println("\ntelemetry:")
	fmt.Printf("  enabled: %v\n", cfg.Telemetry.Enabled)
	fmt.Printf("  service_name: %s\n", cfg.Telemetry.ServiceName)

	return nil
}
