package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/fileprint/pkg/fileprint/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage fileprint configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/fileprint/config.yaml (if set)
  2. ~/.config/fileprint/config.yaml

Environment variables can override config file settings using the FILEPRINT_ prefix:
  FILEPRINT_LAYOUT=v1
  FILEPRINT_BLOCK_SIZE=1MiB
  FILEPRINT_CATALOG_PATH=/srv/fileprint/catalog`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fmt.Fprintf(w, "Config file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(w, "Config file: (using defaults, no file found)\n\n")
		}
	} else {
		fmt.Fprintf(w, "Config file: (using defaults, no file found)\n\n")
	}

	catalogPath, err := cfg.CatalogPath()
	if err != nil {
		printError(cmd, "Failed to resolve catalog path: %v", err)
	}

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "layout:                   %s\n", cfg.Layout)
	fmt.Fprintf(w, "output:                   %s\n", cfg.Output)
	fmt.Fprintf(w, "block_size:               %s\n", cfg.BlockSize)
	fmt.Fprintf(w, "catalog.path:             %s\n", catalogPath)
	fmt.Fprintf(w, "catalog.reuse_mtime:      %t\n", cfg.Catalog.ReuseMtime)
	fmt.Fprintf(w, "catalog.reuse_ctime:      %t\n", cfg.Catalog.ReuseCtime)
	fmt.Fprintf(w, "logging.level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "logging.path:             %s\n", cfg.Logging.Path)
	fmt.Fprintf(w, "logging.rotation.max_size: %s\n", cfg.Logging.Rotation.MaxSize)

	fmt.Fprintln(w, "\nEnvironment Overrides:")
	fmt.Fprintln(w, "----------------------")
	envVars := []string{
		"FILEPRINT_LAYOUT",
		"FILEPRINT_OUTPUT",
		"FILEPRINT_BLOCK_SIZE",
		"FILEPRINT_CATALOG_PATH",
		"FILEPRINT_CATALOG_REUSE_MTIME",
		"FILEPRINT_CATALOG_REUSE_CTIME",
		"FILEPRINT_LOGGING_LEVEL",
		"FILEPRINT_LOGGING_PATH",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(w, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(w, "(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !created {
		printInfo(cmd, "Config file already exists: %s", configPath)
		return nil
	}

	printInfo(cmd, "Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose(cmd, "File exists")
	} else if os.IsNotExist(err) {
		printVerbose(cmd, "File does not exist (will use defaults)")
	}

	return nil
}
