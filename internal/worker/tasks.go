package worker

import (
	"context"

	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
)

// task performs one fetch and publishes the result. Unlike pollers, the
// fetch runs under the task's own token so aborting the handle aborts the
// call; the resulting cancellation is not published.
type task struct {
	base  Base
	id    string
	fetch func(ctx context.Context, t scope.Target) protocol.Response
}

func (t *task) ID() string { return t.id }

func (t *task) Run(ctx context.Context) {
	if t.base.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.base.Timeout)
		defer cancel()
	}
	safely(t.id, func() {
		resp := t.fetch(ctx, t.base.Target)
		if resp == nil || ctx.Err() == context.Canceled {
			return
		}
		t.base.Publish(resp)
	})
}

// NewTask wraps a one-shot fetch into a Worker.
func NewTask(b Base, id string, fetch func(ctx context.Context, t scope.Target) protocol.Response) Worker {
	return &task{base: b, id: id, fetch: fetch}
}

// NewPodRefresh fetches the pod list once.
func NewPodRefresh(b Base) Worker { return NewTask(b, "pod-get", fetchPods(b)) }

// NewEventRefresh fetches the event list once.
func NewEventRefresh(b Base) Worker { return NewTask(b, "event-get", fetchEvents(b)) }

// NewConfigRefresh fetches the config list once.
func NewConfigRefresh(b Base) Worker { return NewTask(b, "config-get", fetchConfigs(b)) }

// NewNetworkRefresh fetches the network list once.
func NewNetworkRefresh(b Base) Worker { return NewTask(b, "network-get", fetchNetworks(b)) }

// NewDiscovery lists the resource kinds the server offers.
func NewDiscovery(b Base) Worker {
	return NewTask(b, "api-discovery", func(ctx context.Context, t scope.Target) protocol.Response {
		resources, err := b.Client.APIResources(ctx, t)
		return protocol.AvailableAPIResourcesResponse{Header: b.Header(), Result: protocol.From(resources, err)}
	})
}

// NewConfigData fetches the content of one ConfigMap or Secret.
func NewConfigData(b Base, ref kube.ObjectRef) Worker {
	return NewTask(b, "config-data", func(ctx context.Context, t scope.Target) protocol.Response {
		data, err := b.Client.ConfigData(ctx, t, ref)
		return protocol.ConfigDataResponse{Header: b.Header(), Result: protocol.From(data, err)}
	})
}

// NewNetworkDescribe describes one network object.
func NewNetworkDescribe(b Base, ref kube.ObjectRef) Worker {
	return NewTask(b, "network-describe", func(ctx context.Context, t scope.Target) protocol.Response {
		text, err := b.Client.DescribeNetwork(ctx, t, ref)
		return protocol.NetworkDescriptionResponse{Header: b.Header(), Ref: ref, Result: protocol.From(text, err)}
	})
}

// NewYamlList lists the objects of one kind.
func NewYamlList(b Base, r scope.APIResource) Worker {
	return NewTask(b, "yaml-list", func(ctx context.Context, t scope.Target) protocol.Response {
		refs, err := b.Client.ListObjects(ctx, t, r)
		return protocol.YamlListResponse{Header: b.Header(), Resource: r, Result: protocol.From(refs, err)}
	})
}

// NewYamlShow renders one object as YAML.
func NewYamlShow(b Base, ref kube.ObjectRef) Worker {
	return NewTask(b, "yaml-show", func(ctx context.Context, t scope.Target) protocol.Response {
		text, err := b.Client.YAML(ctx, t, ref)
		return protocol.YamlResponse{Header: b.Header(), Ref: ref, Result: protocol.From(text, err)}
	})
}

// NewGet fetches the summary of one object.
func NewGet(b Base, ref kube.ObjectRef) Worker {
	return NewTask(b, "get", func(ctx context.Context, t scope.Target) protocol.Response {
		summary, err := b.Client.Summary(ctx, t, ref)
		return protocol.GetResponse{Header: b.Header(), Result: protocol.From(summary, err)}
	})
}
