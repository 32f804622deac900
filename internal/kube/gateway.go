package kube

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// NewClientsetFromConfig is a package-level variable to allow mocking of kubernetes.NewForConfig.
var NewClientsetFromConfig = func(c *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(c)
}

// NewDynamicFromConfig is a package-level variable to allow mocking of dynamic.NewForConfig.
var NewDynamicFromConfig = func(c *rest.Config) (dynamic.Interface, error) {
	return dynamic.NewForConfig(c)
}

// NewNonInteractiveDeferredLoadingClientConfig is a package-level variable to allow mocking of clientcmd.NewNonInteractiveDeferredLoadingClientConfig.
var NewNonInteractiveDeferredLoadingClientConfig = func(loader clientcmd.ClientConfigLoader, overrides *clientcmd.ConfigOverrides) clientcmd.ClientConfig {
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loader, overrides)
}

type clientsets struct {
	typed   kubernetes.Interface
	dynamic dynamic.Interface
	// stream has no client-side timeout; log follows outlive any request timeout.
	stream kubernetes.Interface
}

// Gateway is the client-go backed Client.
type Gateway struct {
	loadingRules   *clientcmd.ClientConfigLoadingRules
	requestTimeout time.Duration

	mu      sync.Mutex
	clients map[string]*clientsets
}

// NewGateway creates a Gateway reading kubeconfigPath, or the default
// loading rules (KUBECONFIG, ~/.kube/config) when it is empty.
func NewGateway(kubeconfigPath string, requestTimeout time.Duration) *Gateway {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	return &Gateway{
		loadingRules:   rules,
		requestTimeout: requestTimeout,
		clients:        make(map[string]*clientsets),
	}
}

// CurrentContext returns the kubeconfig's current-context.
func (g *Gateway) CurrentContext() (string, error) {
	cfg, err := g.loadingRules.Load()
	if err != nil {
		return "", Classify("load kubeconfig", err)
	}
	if cfg.CurrentContext == "" {
		return "", &Error{Kind: KindNotFound, Op: "load kubeconfig", Err: fmt.Errorf("current kubeconfig context is not set")}
	}
	return cfg.CurrentContext, nil
}

// Contexts lists every kubeconfig context sorted by name.
func (g *Gateway) Contexts(ctx context.Context) ([]ContextInfo, error) {
	cfg, err := g.loadingRules.Load()
	if err != nil {
		return nil, Classify("list contexts", err)
	}
	out := make([]ContextInfo, 0, len(cfg.Contexts))
	for name, kctx := range cfg.Contexts {
		out = append(out, ContextInfo{
			Name:      name,
			Cluster:   kctx.Cluster,
			User:      kctx.AuthInfo,
			Namespace: kctx.Namespace,
			Current:   name == cfg.CurrentContext,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// forContext returns the clientsets of one context, creating them on first use.
func (g *Gateway) forContext(contextName string) (*clientsets, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cs, ok := g.clients[contextName]; ok {
		return cs, nil
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	kubeConfig := NewNonInteractiveDeferredLoadingClientConfig(g.loadingRules, overrides)
	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, Classify("client config", fmt.Errorf("failed to get REST config for context %s: %w", contextName, err))
	}
	streamConfig := rest.CopyConfig(restConfig)
	streamConfig.Timeout = 0
	if g.requestTimeout > 0 {
		restConfig.Timeout = g.requestTimeout
	}

	typed, err := NewClientsetFromConfig(restConfig)
	if err != nil {
		return nil, Classify("client config", fmt.Errorf("failed to create Kubernetes clientset for context %s: %w", contextName, err))
	}
	dyn, err := NewDynamicFromConfig(restConfig)
	if err != nil {
		return nil, Classify("client config", fmt.Errorf("failed to create dynamic client for context %s: %w", contextName, err))
	}

	stream, err := NewClientsetFromConfig(streamConfig)
	if err != nil {
		return nil, Classify("client config", fmt.Errorf("failed to create streaming clientset for context %s: %w", contextName, err))
	}

	cs := &clientsets{typed: typed, dynamic: dyn, stream: stream}
	g.clients[contextName] = cs
	logging.Debug("Gateway", "created clients for context %q", contextName)
	return cs, nil
}

// namespacesOf expands the target into the namespaces a list call runs in.
// All namespaces is a single cluster-wide call.
func namespacesOf(t scope.Target) []string {
	if t.AllNamespaces() {
		return []string{""}
	}
	return t.Namespaces
}

var _ Client = (*Gateway)(nil)
