package worker

import (
	"context"
	"time"

	"kubepane/internal/protocol"
	"kubepane/internal/scope"
)

// Handle identities of the periodic workers.
const (
	ContextPollerID     = "context-poller"
	NamespacePollerID   = "namespace-poller"
	PodPollerID         = "pod-poller"
	EventPollerID       = "event-poller"
	ConfigPollerID      = "config-poller"
	NetworkPollerID     = "network-poller"
	APIResourcePollerID = "api-resource-poller"
)

// poller repeats fetch every interval and publishes what it returns.
type poller struct {
	base     Base
	id       string
	interval time.Duration
	fetch    func(ctx context.Context, t scope.Target) protocol.Response
}

func (p *poller) ID() string              { return p.id }
func (p *poller) Interval() time.Duration { return p.interval }

// Run polls immediately and then on every tick. Cancellation is checked
// between iterations only: a call in flight completes and its response is
// still published; the consumer discards it by generation.
func (p *poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		safely(p.id, p.pollOnce)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *poller) pollOnce() {
	callCtx, cancel := p.base.CallContext()
	defer cancel()
	if resp := p.fetch(callCtx, p.base.Target); resp != nil {
		p.base.Publish(resp)
	}
}

// NewContextPoller lists kubeconfig contexts. It does not depend on the
// Target and is meant to run with an unscoped Base.
func NewContextPoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: ContextPollerID, interval: interval,
		fetch: func(ctx context.Context, _ scope.Target) protocol.Response {
			contexts, err := b.Client.Contexts(ctx)
			return protocol.ContextResponse{Header: b.Header(), Result: protocol.From(contexts, err)}
		}}
}

// NewNamespacePoller lists the namespaces of the Target's cluster.
func NewNamespacePoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: NamespacePollerID, interval: interval,
		fetch: func(ctx context.Context, t scope.Target) protocol.Response {
			namespaces, err := b.Client.Namespaces(ctx, t)
			return protocol.NamespaceListResponse{Header: b.Header(), Result: protocol.From(namespaces, err)}
		}}
}

// NewPodPoller lists pods of the selected namespaces.
func NewPodPoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: PodPollerID, interval: interval, fetch: fetchPods(b)}
}

// NewEventPoller lists events of the selected namespaces.
func NewEventPoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: EventPollerID, interval: interval, fetch: fetchEvents(b)}
}

// NewConfigPoller lists ConfigMaps and Secrets of the selected namespaces.
func NewConfigPoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: ConfigPollerID, interval: interval, fetch: fetchConfigs(b)}
}

// NewNetworkPoller lists Services, Ingresses and NetworkPolicies.
func NewNetworkPoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: NetworkPollerID, interval: interval, fetch: fetchNetworks(b)}
}

// NewAPIResourcePoller lists the objects of every selected resource kind.
func NewAPIResourcePoller(b Base, interval time.Duration) Poller {
	return &poller{base: b, id: APIResourcePollerID, interval: interval,
		fetch: func(ctx context.Context, t scope.Target) protocol.Response {
			tables, err := b.Client.ListResources(ctx, t)
			return protocol.APIResourcesPollResponse{Header: b.Header(), Result: protocol.From(tables, err)}
		}}
}

func fetchPods(b Base) func(context.Context, scope.Target) protocol.Response {
	return func(ctx context.Context, t scope.Target) protocol.Response {
		pods, err := b.Client.Pods(ctx, t)
		return protocol.PodResponse{Header: b.Header(), Result: protocol.From(pods, err)}
	}
}

func fetchEvents(b Base) func(context.Context, scope.Target) protocol.Response {
	return func(ctx context.Context, t scope.Target) protocol.Response {
		events, err := b.Client.Events(ctx, t)
		return protocol.EventResponse{Header: b.Header(), Result: protocol.From(events, err)}
	}
}

func fetchConfigs(b Base) func(context.Context, scope.Target) protocol.Response {
	return func(ctx context.Context, t scope.Target) protocol.Response {
		configs, err := b.Client.Configs(ctx, t)
		return protocol.ConfigResponse{Header: b.Header(), Result: protocol.From(configs, err)}
	}
}

func fetchNetworks(b Base) func(context.Context, scope.Target) protocol.Response {
	return func(ctx context.Context, t scope.Target) protocol.Response {
		items, err := b.Client.Networks(ctx, t)
		return protocol.NetworkResponse{Header: b.Header(), Result: protocol.From(items, err)}
	}
}
