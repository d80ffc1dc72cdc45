package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the full sitechat configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	GitHub  GitHubConfig
	Site    SiteConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port     int
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type GitHubConfig struct {
	User    string
	Token   string
	BaseURL string
}

type SiteConfig struct {
	Owner   string
	BaseURL string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4700,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/sitechat/config.json (if present), then applies
// SITECHAT_* environment overrides. The management API token is required.
func Load() (Config, error) {
	cfg := defaults()

	if err := applyFile(&cfg, configFilePath()); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if cfg.Server.APIToken == "" {
		return Config{}, fmt.Errorf("missing required config: management API token. " +
			"Set it via environment variable SITECHAT_API_TOKEN or the api_token key in config.json")
	}
	if cfg.GitHub.User == "" {
		return Config{}, fmt.Errorf("missing required config: GitHub user. " +
			"Set it via environment variable SITECHAT_GITHUB_USER or the github_user key in config.json")
	}

	return cfg, nil
}

// fileConfig mirrors the JSON config file's flat key layout.
type fileConfig struct {
	Port        int    `json:"port"`
	APIToken    string `json:"api_token"`
	DataDir     string `json:"data_dir"`
	GitHubUser  string `json:"github_user"`
	GitHubToken string `json:"github_token"`
	GitHubAPI   string `json:"github_api"`
	SiteOwner   string `json:"site_owner"`
	SiteBaseURL string `json:"site_base_url"`
	LogLevel    string `json:"log_level"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Port > 0 {
		cfg.Server.Port = fc.Port
	}
	setIfNotEmpty(&cfg.Server.APIToken, fc.APIToken)
	setIfNotEmpty(&cfg.Storage.DataDir, fc.DataDir)
	setIfNotEmpty(&cfg.GitHub.User, fc.GitHubUser)
	setIfNotEmpty(&cfg.GitHub.Token, fc.GitHubToken)
	setIfNotEmpty(&cfg.GitHub.BaseURL, fc.GitHubAPI)
	setIfNotEmpty(&cfg.Site.Owner, fc.SiteOwner)
	setIfNotEmpty(&cfg.Site.BaseURL, fc.SiteBaseURL)
	setIfNotEmpty(&cfg.Log.Level, fc.LogLevel)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SITECHAT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	setIfNotEmpty(&cfg.Server.APIToken, os.Getenv("SITECHAT_API_TOKEN"))
	setIfNotEmpty(&cfg.Storage.DataDir, os.Getenv("SITECHAT_DATA_DIR"))
	setIfNotEmpty(&cfg.GitHub.User, os.Getenv("SITECHAT_GITHUB_USER"))
	setIfNotEmpty(&cfg.GitHub.Token, os.Getenv("SITECHAT_GITHUB_TOKEN"))
	setIfNotEmpty(&cfg.GitHub.BaseURL, os.Getenv("SITECHAT_GITHUB_API"))
	setIfNotEmpty(&cfg.Site.Owner, os.Getenv("SITECHAT_SITE_OWNER"))
	setIfNotEmpty(&cfg.Site.BaseURL, os.Getenv("SITECHAT_SITE_BASE_URL"))
	setIfNotEmpty(&cfg.Log.Level, os.Getenv("SITECHAT_LOG_LEVEL"))
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func configFilePath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "sitechat", "config.json")
}

func defaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "sitechat")
}
