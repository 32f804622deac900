package config

import "time"

// GetDefaultConfig returns the built-in configuration: the kubeconfig's
// current context, all namespaces, no API resource kinds selected.
func GetDefaultConfig() KubepaneConfig {
	return KubepaneConfig{
		GlobalSettings: GlobalSettings{
			RequestTimeout: 10 * time.Second,
			LogLevel:       "info",
		},
		Scope: ScopeConfig{},
		Intervals: IntervalsConfig{
			Context:     5 * time.Second,
			Namespace:   5 * time.Second,
			Pod:         time.Second,
			Event:       2 * time.Second,
			Config:      3 * time.Second,
			Network:     3 * time.Second,
			APIResource: 2 * time.Second,
			Tick:        time.Second,
		},
		Logs: LogsConfig{
			FlushInterval: 200 * time.Millisecond,
			TailLines:     200,
			MaxViewLines:  5000,
		},
	}
}
