package config

import (
	"time"
)

// KubepaneConfig is the top-level configuration structure for kubepane.
type KubepaneConfig struct {
	GlobalSettings GlobalSettings  `yaml:"globalSettings"`
	Scope          ScopeConfig     `yaml:"scope"`
	Intervals      IntervalsConfig `yaml:"intervals"`
	Logs           LogsConfig      `yaml:"logs"`
}

// GlobalSettings holds process-wide options.
type GlobalSettings struct {
	Kubeconfig     string        `yaml:"kubeconfig,omitempty"`     // Explicit kubeconfig path; empty uses the client-go loading rules
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"` // Upper bound for a single API call made by a worker
	LogLevel       string        `yaml:"logLevel,omitempty"`       // "debug", "info", "warn", "error"
}

// ScopeConfig is the initial Target Scope the dashboard starts with.
type ScopeConfig struct {
	Context      string   `yaml:"context,omitempty"`      // Empty means the kubeconfig current-context
	Namespaces   []string `yaml:"namespaces,omitempty"`   // Empty means all namespaces
	APIResources []string `yaml:"apiResources,omitempty"` // "resource.group" form, e.g. "deployments.apps"
}

// IntervalsConfig holds the polling cadence of every periodic worker.
type IntervalsConfig struct {
	Context     time.Duration `yaml:"context,omitempty"`
	Namespace   time.Duration `yaml:"namespace,omitempty"`
	Pod         time.Duration `yaml:"pod,omitempty"`
	Event       time.Duration `yaml:"event,omitempty"`
	Config      time.Duration `yaml:"config,omitempty"`
	Network     time.Duration `yaml:"network,omitempty"`
	APIResource time.Duration `yaml:"apiResource,omitempty"`
	Tick        time.Duration `yaml:"tick,omitempty"`
}

// LogsConfig controls the log-follow feature.
type LogsConfig struct {
	FlushInterval time.Duration `yaml:"flushInterval,omitempty"` // Log collector batching window
	TailLines     int64         `yaml:"tailLines,omitempty"`     // Lines requested from the API when a follow starts
	MaxViewLines  int           `yaml:"maxViewLines,omitempty"`  // Lines kept in the log pane
}
