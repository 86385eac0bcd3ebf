package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rescale/sheetconv/internal/config"
	"github.com/rescale/sheetconv/internal/constants"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sheetconv configuration",
		Long: `Configuration management commands for sheetconv.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  test  - Test the connection to the conversion service
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigTestCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for sheetconv.

The configuration will be saved to ~/.config/sheetconv/config

Use --force to overwrite existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			configPath, err := resolveConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", configPath)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Fprintln(out, "sheetconv Configuration Setup")
			fmt.Fprintln(out, "=============================")
			fmt.Fprintln(out)

			reader := bufio.NewReader(cmd.InOrStdin())
			cfg := config.NewConfig()

			cfg.BaseURL = promptLine(reader, out, "Conversion service URL", constants.DefaultBaseURL)
			cfg.OutputDir = promptLine(reader, out, "Output directory", cfg.OutputDir)

			intervalInput := promptLine(reader, out, "Poll interval (ms)", strconv.FormatInt(cfg.PollInterval.Milliseconds(), 10))
			if v, err := strconv.Atoi(intervalInput); err == nil && v > 0 {
				cfg.PollInterval = time.Duration(v) * time.Millisecond
			} else {
				fmt.Fprintf(out, "  Ignoring invalid interval %q\n", intervalInput)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Proxy modes: no-proxy, system, basic, ntlm")
			cfg.ProxyMode = promptLine(reader, out, "Proxy mode", cfg.ProxyMode)
			if cfg.ProxyMode == "basic" || cfg.ProxyMode == "ntlm" {
				cfg.ProxyHost = promptLine(reader, out, "Proxy host", "")
				portInput := promptLine(reader, out, "Proxy port", strconv.Itoa(cfg.ProxyPort))
				if v, err := strconv.Atoi(portInput); err == nil && v > 0 {
					cfg.ProxyPort = v
				}
				cfg.ProxyUser = promptLine(reader, out, "Proxy user", "")
				cfg.NoProxy = promptLine(reader, out, "No-proxy hosts (comma separated)", "")
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if err := config.Save(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			GetLogger().Info().Str("path", configPath).Msg("Configuration saved")

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)
			if cfg.ProxyUser != "" {
				fmt.Fprintln(out, "The proxy password is not stored. Set SHEETCONV_PROXY_PASSWORD or enter it when prompted.")
			}
			fmt.Fprintln(out, "Test your configuration with: sheetconv config test")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// secretState renders a secret without revealing any part of it.
func secretState(v string) string {
	if v == "" {
		return "<not set>"
	}
	return "<set>"
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/sheetconv/config)
  2. .env file in the working directory
  3. Environment variables (SHEETCONV_*)
  4. Command-line flags (--base-url)

Priority: flags > environment > config file > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			configPath, err := resolveConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(config.DefaultDotenvPath); err != nil {
				return err
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}

			fmt.Fprintln(out, "Current Configuration")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Server:")
			fmt.Fprintf(out, "  Base URL:        %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout)
			fmt.Fprintf(out, "  Poll Interval:   %s\n", cfg.PollInterval)
			fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDir)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Proxy Settings:")
			fmt.Fprintf(out, "  Proxy Mode: %s\n", cfg.ProxyMode)
			if cfg.ProxyHost != "" {
				fmt.Fprintf(out, "  Proxy Host: %s\n", cfg.ProxyHost)
				fmt.Fprintf(out, "  Proxy Port: %d\n", cfg.ProxyPort)
			}
			if cfg.ProxyUser != "" {
				fmt.Fprintf(out, "  Proxy User: %s\n", cfg.ProxyUser)
				fmt.Fprintf(out, "  Password:   %s\n", secretState(cfg.ProxyPassword))
			}
			if cfg.NoProxy != "" {
				fmt.Fprintf(out, "  No Proxy:   %s\n", cfg.NoProxy)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Destinations:")
			fmt.Fprintf(out, "  S3 Region:     %s\n", cfg.S3Region)
			if cfg.S3Endpoint != "" {
				fmt.Fprintf(out, "  S3 Endpoint:   %s\n", cfg.S3Endpoint)
			}
			fmt.Fprintf(out, "  S3 Keys:       %s\n", secretState(cfg.S3AccessKeyID))
			fmt.Fprintf(out, "  Azure SAS URL: %s\n", secretState(cfg.AzureSASURL))
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Configuration file: %s\n", configPath)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "  (file does not exist - using defaults)")
			}

			return nil
		},
	}

	return cmd
}

// newConfigTestCmd creates the 'config test' command.
func newConfigTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the connection to the conversion service",
		Long: `Send a status query for an unknown task and check that the service
answers. A "task not found" reply counts as success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Base URL: %s\n", cfg.BaseURL)
			fmt.Fprintln(out, "Testing connection...")

			client, err := getAPIClient(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(GetContext(), constants.ProxyWarmupTimeout)
			defer cancel()

			if err := client.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("Connection test failed")
				fmt.Fprintln(out, "Connection FAILED")
				fmt.Fprintf(out, "  Error: %v\n", err)
				return fmt.Errorf("connection test failed")
			}

			log.Info().Msg("Connection test successful")
			fmt.Fprintln(out, "Connection SUCCESSFUL")
			return nil
		},
	}

	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			configPath, err := resolveConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}
			if cfgFile == "" {
				fmt.Fprintln(out, "Default configuration path:")
			} else {
				fmt.Fprintln(out, "Configuration path (from --config flag):")
			}
			fmt.Fprintf(out, "  %s\n", configPath)
			fmt.Fprintln(out)

			if info, err := os.Stat(configPath); err == nil {
				fmt.Fprintln(out, "Status: File exists")
				fmt.Fprintf(out, "Size:   %d bytes\n", info.Size())
				fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status: File does not exist")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Create a configuration file with: sheetconv config init")
			}

			return nil
		},
	}

	return cmd
}
