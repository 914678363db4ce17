package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"botfarm/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL      = "http://localhost:5000"
	DefaultStatsInterval   = 3 * time.Second
	DefaultDevicesInterval = 5 * time.Second
	DefaultRetryDelay      = 2 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultBackendImage    = "botfarm/backend:latest"
	DefaultBackendPort     = 5000

	ConfigDir   = ".botfarm"
	ConfigFile  = "botfarm.yml"
	BackendFile = "backend.yml"
	StateFile   = "state.db"
)

func GetConfigDir() (string, error) {
	if dir := os.Getenv("BOTFARM_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ConfigDir), nil
}

func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, 0755)
}

// Default returns a config with every field set to its default.
func Default() *models.Config {
	config := &models.Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *models.Config) {
	if config.BackendURL == "" {
		config.BackendURL = DefaultBackendURL
	}
	if config.StatsInterval <= 0 {
		config.StatsInterval = DefaultStatsInterval
	}
	if config.DevicesInterval <= 0 {
		config.DevicesInterval = DefaultDevicesInterval
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.Backend.Image == "" {
		config.Backend.Image = DefaultBackendImage
	}
	if config.Backend.Port == 0 {
		config.Backend.Port = DefaultBackendPort
	}
}

func LoadConfig() (*models.Config, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, ConfigFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config if it doesn't exist
		config := Default()
		return config, SaveConfig(config)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &models.Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(config)
	return config, nil
}

func SaveConfig(config *models.Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, ConfigFile)
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// StatePath is the SQLite file holding persisted dashboard state.
func StatePath(config *models.Config) (string, error) {
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
		return filepath.Join(config.DataDir, StateFile), nil
	}

	if err := EnsureConfigDir(); err != nil {
		return "", err
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, StateFile), nil
}

// LoadBackend returns the recorded backend container, or nil if none was started.
func LoadBackend() (*models.BackendInfo, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	backendPath := filepath.Join(configDir, BackendFile)
	if _, err := os.Stat(backendPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(backendPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend file: %w", err)
	}

	info := &models.BackendInfo{}
	if err := yaml.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("failed to parse backend file: %w", err)
	}

	return info, nil
}

func SaveBackend(info *models.BackendInfo) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	backendPath := filepath.Join(configDir, BackendFile)
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal backend info: %w", err)
	}

	return os.WriteFile(backendPath, data, 0644)
}

func RemoveBackend() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(configDir, BackendFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove backend file: %w", err)
	}
	return nil
}

// MergeWithFlags merges configuration with command line flags and environment variables
// Priority: flags > config file > environment variables
func MergeWithFlags(config *models.Config, backendURL, dataDir string) {
	if backendURL != "" {
		config.BackendURL = backendURL
	} else if envURL := os.Getenv("BOTFARM_BACKEND_URL"); envURL != "" && config.BackendURL == DefaultBackendURL {
		config.BackendURL = envURL
	}

	if dataDir != "" {
		config.DataDir = dataDir
	} else if envDir := os.Getenv("BOTFARM_DATA_DIR"); envDir != "" && config.DataDir == "" {
		config.DataDir = envDir
	}
}

func ValidateConfig(config *models.Config) error {
	if config.BackendURL == "" {
		return fmt.Errorf("backend URL is required (--backend-url, config file, or BOTFARM_BACKEND_URL env var)")
	}

	u, err := url.Parse(config.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q", config.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend URL must use http or https, got %q", u.Scheme)
	}

	if config.StatsInterval < time.Second || config.DevicesInterval < time.Second {
		fmt.Printf("Warning: polling faster than once per second may overload the backend.\n")
	}

	return nil
}
