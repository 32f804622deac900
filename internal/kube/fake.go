package kube

import (
	"context"
	"sync"

	"kubepane/internal/scope"
)

// FakeClient is an in-memory Client. Every method records the call and
// delegates to the matching *Func field; an unset field returns zero values.
// A cancelled ctx short-circuits with a KindCancelled error.
type FakeClient struct {
	ContextsFunc        func() ([]ContextInfo, error)
	NamespacesFunc      func(t scope.Target) ([]NamespaceInfo, error)
	PodsFunc            func(t scope.Target) ([]PodInfo, error)
	EventsFunc          func(t scope.Target) ([]EventInfo, error)
	ConfigsFunc         func(t scope.Target) ([]ConfigInfo, error)
	ConfigDataFunc      func(t scope.Target, ref ObjectRef) (ConfigData, error)
	NetworksFunc        func(t scope.Target) ([]NetworkInfo, error)
	DescribeNetworkFunc func(t scope.Target, ref ObjectRef) (string, error)
	APIResourcesFunc    func(t scope.Target) ([]scope.APIResource, error)
	ListResourcesFunc   func(t scope.Target) ([]ResourceTable, error)
	ListObjectsFunc     func(t scope.Target, r scope.APIResource) ([]ObjectRef, error)
	YAMLFunc            func(t scope.Target, ref ObjectRef) (string, error)
	SummaryFunc         func(t scope.Target, ref ObjectRef) (Summary, error)
	StreamLogsFunc      func(ctx context.Context, t scope.Target, ref ContainerRef, onLine func(string)) error

	mu      sync.Mutex
	calls   map[string]int
	targets []scope.Target
}

var _ Client = (*FakeClient)(nil)

// Calls returns how often method was invoked.
func (f *FakeClient) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Targets returns every target passed to a scoped method, in call order.
func (f *FakeClient) Targets() []scope.Target {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scope.Target(nil), f.targets...)
}

func (f *FakeClient) record(ctx context.Context, method string, t *scope.Target) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	if t != nil {
		f.targets = append(f.targets, *t)
	}
	f.mu.Unlock()
	return Classify(method, ctx.Err())
}

func (f *FakeClient) Contexts(ctx context.Context) ([]ContextInfo, error) {
	if err := f.record(ctx, "Contexts", nil); err != nil || f.ContextsFunc == nil {
		return nil, err
	}
	return f.ContextsFunc()
}

func (f *FakeClient) Namespaces(ctx context.Context, t scope.Target) ([]NamespaceInfo, error) {
	if err := f.record(ctx, "Namespaces", &t); err != nil || f.NamespacesFunc == nil {
		return nil, err
	}
	return f.NamespacesFunc(t)
}

func (f *FakeClient) Pods(ctx context.Context, t scope.Target) ([]PodInfo, error) {
	if err := f.record(ctx, "Pods", &t); err != nil || f.PodsFunc == nil {
		return nil, err
	}
	return f.PodsFunc(t)
}

func (f *FakeClient) Events(ctx context.Context, t scope.Target) ([]EventInfo, error) {
	if err := f.record(ctx, "Events", &t); err != nil || f.EventsFunc == nil {
		return nil, err
	}
	return f.EventsFunc(t)
}

func (f *FakeClient) Configs(ctx context.Context, t scope.Target) ([]ConfigInfo, error) {
	if err := f.record(ctx, "Configs", &t); err != nil || f.ConfigsFunc == nil {
		return nil, err
	}
	return f.ConfigsFunc(t)
}

func (f *FakeClient) ConfigData(ctx context.Context, t scope.Target, ref ObjectRef) (ConfigData, error) {
	if err := f.record(ctx, "ConfigData", &t); err != nil || f.ConfigDataFunc == nil {
		return ConfigData{Ref: ref}, err
	}
	return f.ConfigDataFunc(t, ref)
}

func (f *FakeClient) Networks(ctx context.Context, t scope.Target) ([]NetworkInfo, error) {
	if err := f.record(ctx, "Networks", &t); err != nil || f.NetworksFunc == nil {
		return nil, err
	}
	return f.NetworksFunc(t)
}

func (f *FakeClient) DescribeNetwork(ctx context.Context, t scope.Target, ref ObjectRef) (string, error) {
	if err := f.record(ctx, "DescribeNetwork", &t); err != nil || f.DescribeNetworkFunc == nil {
		return "", err
	}
	return f.DescribeNetworkFunc(t, ref)
}

func (f *FakeClient) APIResources(ctx context.Context, t scope.Target) ([]scope.APIResource, error) {
	if err := f.record(ctx, "APIResources", &t); err != nil || f.APIResourcesFunc == nil {
		return nil, err
	}
	return f.APIResourcesFunc(t)
}

func (f *FakeClient) ListResources(ctx context.Context, t scope.Target) ([]ResourceTable, error) {
	if err := f.record(ctx, "ListResources", &t); err != nil || f.ListResourcesFunc == nil {
		return nil, err
	}
	return f.ListResourcesFunc(t)
}

func (f *FakeClient) ListObjects(ctx context.Context, t scope.Target, r scope.APIResource) ([]ObjectRef, error) {
	if err := f.record(ctx, "ListObjects", &t); err != nil || f.ListObjectsFunc == nil {
		return nil, err
	}
	return f.ListObjectsFunc(t, r)
}

func (f *FakeClient) YAML(ctx context.Context, t scope.Target, ref ObjectRef) (string, error) {
	if err := f.record(ctx, "YAML", &t); err != nil || f.YAMLFunc == nil {
		return "", err
	}
	return f.YAMLFunc(t, ref)
}

func (f *FakeClient) Summary(ctx context.Context, t scope.Target, ref ObjectRef) (Summary, error) {
	if err := f.record(ctx, "Summary", &t); err != nil || f.SummaryFunc == nil {
		return Summary{Ref: ref}, err
	}
	return f.SummaryFunc(t, ref)
}

func (f *FakeClient) StreamLogs(ctx context.Context, t scope.Target, ref ContainerRef, tailLines int64, onLine func(string)) error {
	if err := f.record(ctx, "StreamLogs", &t); err != nil || f.StreamLogsFunc == nil {
		return err
	}
	return Classify("stream logs", f.StreamLogsFunc(ctx, t, ref, onLine))
}
