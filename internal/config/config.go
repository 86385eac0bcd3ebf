// Package config provides configuration management for sheetconv.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/rescale/sheetconv/internal/constants"
)

// Config holds everything needed to talk to the conversion backend.
//
// Config file location: ~/.config/sheetconv/config
//
// INI format:
//
//	[server]
//	base_url = http://localhost:5001
//	request_timeout_seconds = 0
//
//	[poll]
//	interval_ms = 2000
//
//	[output]
//	dir = ./converted
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 8080
//	user =
//	no_proxy =
//
//	[s3]
//	region = us-east-1
//	endpoint =
//
//	[azure]
//	sas_url =
type Config struct {
	// BaseURL is prefixed to every backend path, including download_url.
	BaseURL string

	// RequestTimeout bounds each individual request. Zero means no timeout:
	// a hanging request keeps the task in processing until it resolves.
	RequestTimeout time.Duration

	// PollInterval is the wait between status queries.
	PollInterval time.Duration

	// OutputDir receives converted files.
	OutputDir string

	// Proxy settings
	ProxyMode     string // "no-proxy", "system", "basic", "ntlm"
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string // never persisted; SHEETCONV_PROXY_PASSWORD only
	NoProxy       string // Comma-separated list of hosts to bypass proxy
	ProxyWarmup   bool

	// Object storage destinations (--dest)
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string // env only; empty means the default AWS chain
	S3SecretAccessKey string // env only
	AzureSASURL       string
}

// envOverrides maps environment variables onto Config fields.
type envOverrides struct {
	BaseURL               string `env:"SHEETCONV_BASE_URL"`
	OutputDir             string `env:"SHEETCONV_OUTPUT_DIR"`
	PollIntervalMS        int    `env:"SHEETCONV_POLL_INTERVAL_MS"`
	RequestTimeoutSeconds int    `env:"SHEETCONV_REQUEST_TIMEOUT_SECONDS"`
	ProxyMode             string `env:"SHEETCONV_PROXY_MODE"`
	ProxyPassword         string `env:"SHEETCONV_PROXY_PASSWORD"`
	AzureSASURL           string `env:"SHEETCONV_AZURE_SAS_URL"`
	S3AccessKeyID         string `env:"SHEETCONV_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey     string `env:"SHEETCONV_S3_SECRET_ACCESS_KEY"`
}

// Validation errors
var (
	ErrMissingBaseURL      = errors.New("base_url is required")
	ErrInvalidBaseURL      = errors.New("base_url must be an absolute http(s) URL")
	ErrInvalidPollInterval = fmt.Errorf("poll interval must be at least %s", constants.MinPollInterval)
	ErrInvalidTimeout      = errors.New("request timeout cannot be negative")
	ErrInvalidProxyMode    = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:      constants.DefaultBaseURL,
		PollInterval: constants.PollInterval,
		OutputDir:    ".",
		ProxyMode:    "no-proxy",
		ProxyPort:    constants.DefaultProxyPort,
	}
}

// Load reads the INI file at path over the defaults. A missing file is not
// an error. An empty path means DefaultConfigPath.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	server := iniFile.Section("server")
	cfg.BaseURL = server.Key("base_url").MustString(cfg.BaseURL)
	cfg.RequestTimeout = time.Duration(server.Key("request_timeout_seconds").MustInt(0)) * time.Second

	poll := iniFile.Section("poll")
	cfg.PollInterval = time.Duration(poll.Key("interval_ms").MustInt(int(constants.PollInterval/time.Millisecond))) * time.Millisecond

	cfg.OutputDir = iniFile.Section("output").Key("dir").MustString(cfg.OutputDir)

	proxy := iniFile.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(cfg.ProxyPort)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()
	cfg.ProxyWarmup = proxy.Key("warmup").MustBool(false)
	if proxy.HasKey("password") {
		fmt.Fprintln(os.Stderr, "[WARN] proxy password in config file is ignored - use SHEETCONV_PROXY_PASSWORD")
	}

	s3 := iniFile.Section("s3")
	cfg.S3Region = s3.Key("region").String()
	cfg.S3Endpoint = s3.Key("endpoint").String()

	cfg.AzureSASURL = iniFile.Section("azure").Key("sas_url").String()

	return cfg, nil
}

// ApplyEnv loads an optional dotenv file and then applies SHEETCONV_*
// environment variables. Variables already present in the environment win
// over the dotenv file.
func (c *Config) ApplyEnv(dotenvPath string) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.PollIntervalMS > 0 {
		c.PollInterval = time.Duration(o.PollIntervalMS) * time.Millisecond
	}
	if o.RequestTimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(o.RequestTimeoutSeconds) * time.Second
	}
	if o.ProxyMode != "" {
		c.ProxyMode = o.ProxyMode
	}
	if o.ProxyPassword != "" {
		c.ProxyPassword = o.ProxyPassword
	}
	if o.AzureSASURL != "" {
		c.AzureSASURL = o.AzureSASURL
	}
	if o.S3AccessKeyID != "" && o.S3SecretAccessKey != "" {
		c.S3AccessKeyID = o.S3AccessKeyID
		c.S3SecretAccessKey = o.S3SecretAccessKey
	}
	return nil
}

// Save writes cfg as INI to path, creating parent directories. The proxy
// password and S3 keys are never written.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()
	sections := []struct {
		name   string
		values [][2]string
	}{
		{"server", [][2]string{
			{"base_url", cfg.BaseURL},
			{"request_timeout_seconds", fmt.Sprintf("%d", int(cfg.RequestTimeout/time.Second))},
		}},
		{"poll", [][2]string{
			{"interval_ms", fmt.Sprintf("%d", cfg.PollInterval.Milliseconds())},
		}},
		{"output", [][2]string{
			{"dir", cfg.OutputDir},
		}},
		{"proxy", [][2]string{
			{"mode", cfg.ProxyMode},
			{"host", cfg.ProxyHost},
			{"port", fmt.Sprintf("%d", cfg.ProxyPort)},
			{"user", cfg.ProxyUser},
			{"no_proxy", cfg.NoProxy},
			{"warmup", fmt.Sprintf("%t", cfg.ProxyWarmup)},
		}},
		{"s3", [][2]string{
			{"region", cfg.S3Region},
			{"endpoint", cfg.S3Endpoint},
		}},
		{"azure", [][2]string{
			{"sas_url", cfg.AzureSASURL},
		}},
	}

	for _, s := range sections {
		sec, err := iniFile.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", s.name, err)
		}
		for _, kv := range s.values {
			sec.Key(kv[0]).SetValue(kv[1])
		}
	}

	// The SAS URL is a bearer credential, so write via temp file with 0600.
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the settings needed before any request is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.PollInterval < constants.MinPollInterval {
		return ErrInvalidPollInterval
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}
	switch strings.ToLower(c.ProxyMode) {
	case "", "no-proxy", "system", "basic", "ntlm":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidProxyMode, c.ProxyMode)
	}
	return nil
}

// NormalizedBaseURL returns BaseURL without a trailing slash.
func (c *Config) NormalizedBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
