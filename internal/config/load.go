package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hance08/kbank/internal/constants"
	"github.com/spf13/viper"
)

const EnvPrefix = "KBANK"

// Load reads the config file at path, or config.yaml in the app data
// directory when path is empty. The default file is written on first run.
// KBANK_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range Defaults() {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		appDir, err := AppDataDir()
		if err != nil {
			return nil, fmt.Errorf("error getting app dir: %w", err)
		}

		v.AddConfigPath(appDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if err := createDefaultConfig(v, appDir); err != nil {
			return nil, fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	var err error
	if cfg.Storage.Path, err = ExpandPath(cfg.Storage.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.File, err = ExpandPath(cfg.Logging.File); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func createDefaultConfig(v *viper.Viper, appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AppDataDir is where config, data and logs live unless configured otherwise
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".kbank"), nil
	}

	return filepath.Join(configDir, "kbank"), nil
}

func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

// StoragePath resolves the data file for the configured driver
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}

	appDir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Driver == constants.DriverFile {
		return filepath.Join(appDir, "kbank.log.jsonl"), nil
	}
	return filepath.Join(appDir, "kbank.db"), nil
}

func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}

	appDir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "kbank.log"), nil
}
