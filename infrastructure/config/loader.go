package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tiksave-bot/domain/media"
)

// DefaultConfigPath is where commands look for the config file unless
// --config overrides it
const DefaultConfigPath = "config/config.yaml"

// EnvBotToken is the environment variable holding the bot token.
// The token never lives in the config file.
const EnvBotToken = "BOT_TOKEN"

// Config represents the complete application configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Audio     AudioConfig     `yaml:"audio"`
	Transcode TranscodeConfig `yaml:"transcode"`
	Storage   StorageConfig   `yaml:"storage"`
	Ops       OpsConfig       `yaml:"ops"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig contains extraction API settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the lookup timeout as a duration
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FetchConfig contains media download settings
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

// Timeout returns the download timeout as a duration
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AudioConfig contains audio derivation settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// TranscodeConfig contains external transcoder settings
type TranscodeConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the transcode timeout as a duration
func (c TranscodeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig contains temp storage settings
type StorageConfig struct {
	TempDirectory        string `yaml:"temp_directory"`
	SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
	SweepMaxAgeMinutes   int    `yaml:"sweep_max_age_minutes"`
}

// SweepInterval returns how often the orphan sweeper runs.
// Zero disables the sweeper.
func (c StorageConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// SweepMaxAge returns how old a temp file must be before the sweeper
// removes it
func (c StorageConfig) SweepMaxAge() time.Duration {
	return time.Duration(c.SweepMaxAgeMinutes) * time.Minute
}

// OpsConfig contains the operational HTTP endpoint settings.
// An empty listen address disables the endpoint.
type OpsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://www.tikwm.com/api/",
			TimeoutSeconds: 30,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 300,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
		},
		Audio: AudioConfig{
			Bitrate: media.DefaultAudioBitrate,
		},
		Transcode: TranscodeConfig{
			TimeoutSeconds: 120,
		},
		Storage: StorageConfig{
			TempDirectory:        filepath.Join(os.TempDir(), "tiksave"),
			SweepIntervalMinutes: 30,
			SweepMaxAgeMinutes:   60,
		},
		Ops: OpsConfig{
			ListenAddr: "",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// A missing file is not an error: defaults apply. Fields the file leaves
// unset also fall back to their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values no component can run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if c.Transcode.TimeoutSeconds <= 0 {
		return fmt.Errorf("transcode.timeout_seconds must be positive")
	}
	if c.Storage.TempDirectory == "" {
		return fmt.Errorf("storage.temp_directory is required")
	}
	return nil
}

// BotToken reads the bot token from the environment
func BotToken() (string, error) {
	token := os.Getenv(EnvBotToken)
	if token == "" {
		return "", fmt.Errorf("%s environment variable is not set", EnvBotToken)
	}
	return token, nil
}
