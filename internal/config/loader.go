package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/kubepane"
	projectConfigDir = ".kubepane"
	configFileName   = "config.yaml"
)

// LoadConfig loads the kubepane configuration by layering default, user, and project settings.
func LoadConfig() (KubepaneConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return KubepaneConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return KubepaneConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	return config, nil
}

// LoadConfigFromPath loads a single explicit file on top of the defaults,
// skipping the user and project layers.
func LoadConfigFromPath(path string) (KubepaneConfig, error) {
	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return KubepaneConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(GetDefaultConfig(), fileConfig), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a KubepaneConfig from a YAML file.
func loadConfigFromFile(filePath string) (KubepaneConfig, error) {
	var config KubepaneConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return KubepaneConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return KubepaneConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in the
// overlay leave the base untouched.
func mergeConfigs(base, overlay KubepaneConfig) KubepaneConfig {
	merged := base

	if overlay.GlobalSettings.Kubeconfig != "" {
		merged.GlobalSettings.Kubeconfig = overlay.GlobalSettings.Kubeconfig
	}
	if overlay.GlobalSettings.RequestTimeout > 0 {
		merged.GlobalSettings.RequestTimeout = overlay.GlobalSettings.RequestTimeout
	}
	if overlay.GlobalSettings.LogLevel != "" {
		merged.GlobalSettings.LogLevel = overlay.GlobalSettings.LogLevel
	}

	if overlay.Scope.Context != "" {
		merged.Scope.Context = overlay.Scope.Context
	}
	if overlay.Scope.Namespaces != nil {
		merged.Scope.Namespaces = append([]string(nil), overlay.Scope.Namespaces...)
	}
	if overlay.Scope.APIResources != nil {
		merged.Scope.APIResources = append([]string(nil), overlay.Scope.APIResources...)
	}

	mergeDuration(&merged.Intervals.Context, overlay.Intervals.Context)
	mergeDuration(&merged.Intervals.Namespace, overlay.Intervals.Namespace)
	mergeDuration(&merged.Intervals.Pod, overlay.Intervals.Pod)
	mergeDuration(&merged.Intervals.Event, overlay.Intervals.Event)
	mergeDuration(&merged.Intervals.Config, overlay.Intervals.Config)
	mergeDuration(&merged.Intervals.Network, overlay.Intervals.Network)
	mergeDuration(&merged.Intervals.APIResource, overlay.Intervals.APIResource)
	mergeDuration(&merged.Intervals.Tick, overlay.Intervals.Tick)

	mergeDuration(&merged.Logs.FlushInterval, overlay.Logs.FlushInterval)
	if overlay.Logs.TailLines > 0 {
		merged.Logs.TailLines = overlay.Logs.TailLines
	}
	if overlay.Logs.MaxViewLines > 0 {
		merged.Logs.MaxViewLines = overlay.Logs.MaxViewLines
	}

	return merged
}

func mergeDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
