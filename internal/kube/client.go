package kube

import (
	"context"

	"kubepane/internal/scope"
)

// Client is everything the workers need from the cluster. Every method
// resolves the cluster from t.Context; list methods honor t.Namespaces.
// Errors returned are *Error values. A list that failed in some namespaces
// only returns the rows it got together with an error for which IsPartial
// holds.
type Client interface {
	Contexts(ctx context.Context) ([]ContextInfo, error)
	Namespaces(ctx context.Context, t scope.Target) ([]NamespaceInfo, error)
	Pods(ctx context.Context, t scope.Target) ([]PodInfo, error)
	Events(ctx context.Context, t scope.Target) ([]EventInfo, error)
	Configs(ctx context.Context, t scope.Target) ([]ConfigInfo, error)
	ConfigData(ctx context.Context, t scope.Target, ref ObjectRef) (ConfigData, error)
	Networks(ctx context.Context, t scope.Target) ([]NetworkInfo, error)
	DescribeNetwork(ctx context.Context, t scope.Target, ref ObjectRef) (string, error)

	// APIResources lists the listable resource kinds the server offers.
	APIResources(ctx context.Context, t scope.Target) ([]scope.APIResource, error)
	// ListResources lists every kind in t.APIResources.
	ListResources(ctx context.Context, t scope.Target) ([]ResourceTable, error)
	// ListObjects lists the objects of a single kind.
	ListObjects(ctx context.Context, t scope.Target, r scope.APIResource) ([]ObjectRef, error)
	YAML(ctx context.Context, t scope.Target, ref ObjectRef) (string, error)
	Summary(ctx context.Context, t scope.Target, ref ObjectRef) (Summary, error)

	// StreamLogs follows a container log, calling onLine for every line until
	// the stream ends or ctx is cancelled. A clean end of stream returns nil.
	StreamLogs(ctx context.Context, t scope.Target, ref ContainerRef, tailLines int64, onLine func(string)) error
}
