package cli

import (
	"fmt"

	"github.com/rescale/sheetconv/internal/api"
	"github.com/rescale/sheetconv/internal/config"
	"github.com/rescale/sheetconv/internal/http"
)

// loadConfig merges the config file, dotenv, environment and global flags,
// prompting for a proxy password when one is needed and stdin is a terminal.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(config.DefaultDotenvPath); err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if http.NeedsProxyPassword(cfg) {
		password, err := promptProxyPassword(cfg.ProxyUser)
		if err != nil {
			GetLogger().Warn().Err(err).Msg("Proxy password unavailable - continuing without proxy auth")
		} else {
			cfg.ProxyPassword = password
		}
	}

	return cfg, nil
}

// getAPIClient creates a backend client for cfg.
func getAPIClient(cfg *config.Config) (*api.Client, error) {
	client, err := api.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}
