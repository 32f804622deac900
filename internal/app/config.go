package app

import (
	"kubepane/internal/config"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug   bool
	LogFile string

	// ConfigPath, when set, replaces the layered configuration lookup.
	ConfigPath string

	// Flag overrides; zero values leave the file configuration alone.
	Kubeconfig    string
	Context       string
	Namespaces    []string
	AllNamespaces bool
	Resources     []string

	// Environment configuration
	KubepaneConfig *config.KubepaneConfig
}

// NewConfig creates a new application configuration
func NewConfig(noTUI, debug bool) *Config {
	return &Config{
		NoTUI: noTUI,
		Debug: debug,
	}
}

// applyOverrides folds the command line flags into the loaded configuration.
func (c *Config) applyOverrides(kc config.KubepaneConfig) config.KubepaneConfig {
	if c.Kubeconfig != "" {
		kc.GlobalSettings.Kubeconfig = c.Kubeconfig
	}
	if c.Context != "" {
		kc.Scope.Context = c.Context
	}
	switch {
	case c.AllNamespaces:
		kc.Scope.Namespaces = nil
	case len(c.Namespaces) > 0:
		kc.Scope.Namespaces = append([]string(nil), c.Namespaces...)
	}
	if len(c.Resources) > 0 {
		kc.Scope.APIResources = append([]string(nil), c.Resources...)
	}
	if c.Debug {
		kc.GlobalSettings.LogLevel = "debug"
	}
	return kc
}
