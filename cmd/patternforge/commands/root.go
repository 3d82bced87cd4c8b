// Package commands contains all CLI commands for patternforge.
//
// This package uses the Cobra library for CLI management.
// Each command is defined in its own file and registered in init().
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patternforge/patternforge/internal/logger"
)

var (
	// cfgFile holds the path to the config file (from --config flag)
	cfgFile string

	// verbose enables detailed output
	verbose bool

	// quiet suppresses all output except errors
	quiet bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "patternforge",
	Short: "Pattern-matching code scanner",
	Long: `patternforge is a CLI tool that runs a declarative rule catalog
against source files, looking for pattern matches - strings, regexes,
and scoped JSON/XML paths - outside of comments and string literals.

It is demonstration glue around the rule-catalog library: rule loading,
compilation, and evaluation live in internal packages and can be
embedded directly; this binary just wires them to a file list and a
JSON writer.

Examples:
  # Scan a file with the embedded default rules
  patternforge scan main.go

  # Scan with a custom rules directory layered on the defaults
  patternforge scan --rules-dir ./rules main.go handler.go

  # Show the resolved configuration
  patternforge config show`,

	// SilenceUsage prevents printing usage on errors
	// We want clean error messages, not the full help text
	SilenceUsage: true,

	// SilenceErrors lets us handle errors ourselves
	SilenceErrors: true,

	// PersistentPreRunE runs before any command (including subcommands)
	// Use this for initialization that all commands need
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Persistent flags are available to this command and all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .patternforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	// Bind flags to viper for config file support
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory and home directory
		viper.SetConfigName(".patternforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Read environment variables that match
	// PATTERNFORGE_PROCESSOR_WORKERS -> processor.workers
	viper.SetEnvPrefix("PATTERNFORGE")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	switch {
	case quiet:
		logger.SetLevel(logger.LevelError)
	case verbose:
		logger.SetLevel(logger.LevelDebug)
	default:
		logger.SetLevel(logger.LevelInfo)
	}

	if isVerbose() {
		if cfgUsed := viper.ConfigFileUsed(); cfgUsed != "" {
			logger.Info("using config file: %s", cfgUsed)
		}
	}

	return nil
}

// isVerbose returns true if verbose mode is enabled
func isVerbose() bool {
	return verbose && !quiet
}

// isQuiet returns true if quiet mode is enabled
func isQuiet() bool {
	return quiet
}
