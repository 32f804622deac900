// Package config provides configuration management for kubepane.
//
// Configuration is loaded from multiple YAML sources and merged in order,
// with later sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//  2. User Configuration (~/.config/kubepane/config.yaml)
//  3. Project Configuration (./.kubepane/config.yaml)
//
// A file passed with --config replaces layers 2 and 3. Command-line flags are
// applied on top by the cmd package.
//
// # Configuration Structure
//
//	globalSettings:
//	  kubeconfig: ""          # empty follows KUBECONFIG / ~/.kube/config
//	  requestTimeout: 10s
//	  logLevel: info
//
//	scope:
//	  context: ""             # empty means the kubeconfig current-context
//	  namespaces: []          # empty means all namespaces
//	  apiResources:
//	    - deployments.apps
//	    - configmaps
//
//	intervals:
//	  pod: 1s
//	  event: 2s
//	  context: 5s
//
//	logs:
//	  flushInterval: 200ms
//	  tailLines: 200
//
// Only non-zero values of an overlay take effect. Lists (namespaces,
// apiResources) are replaced as a whole, never appended.
package config
