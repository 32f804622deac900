package protocol

import (
	"kubepane/internal/kube"
	"kubepane/internal/scope"
)

// Context

type ContextGet struct{ request }
type ContextSet struct {
	request
	Name string
}

// ContextResponse is the kubeconfig context list. It is unscoped.
type ContextResponse struct {
	Header
	Result Result[[]kube.ContextInfo]
}

// CurrentContextResponse answers ContextGet and ContextSet.
type CurrentContextResponse struct {
	Header
	Result Result[string]
}

func (ContextGet) Area() Area             { return AreaContext }
func (ContextSet) Area() Area             { return AreaContext }
func (ContextResponse) Area() Area        { return AreaContext }
func (CurrentContextResponse) Area() Area { return AreaContext }

func (r ContextResponse) Failure() error        { return r.Result.Err }
func (r CurrentContextResponse) Failure() error { return r.Result.Err }

// Namespace

type NamespaceGet struct{ request }
type NamespaceSet struct {
	request
	// Namespaces to observe; empty means all namespaces.
	Namespaces []string
}

// NamespaceToggle adds Name to the observed namespaces, or removes it when
// already observed. It is applied to the scope current when it is handled,
// so toggles queued back to back compose.
type NamespaceToggle struct {
	request
	Name string
}

// NamespaceListResponse is the cluster's namespace list.
type NamespaceListResponse struct {
	Header
	Result Result[[]kube.NamespaceInfo]
}

// SelectedNamespacesResponse answers NamespaceGet and NamespaceSet.
type SelectedNamespacesResponse struct {
	Header
	Result Result[[]string]
}

func (NamespaceGet) Area() Area               { return AreaNamespace }
func (NamespaceSet) Area() Area               { return AreaNamespace }
func (NamespaceToggle) Area() Area            { return AreaNamespace }
func (NamespaceListResponse) Area() Area      { return AreaNamespace }
func (SelectedNamespacesResponse) Area() Area { return AreaNamespace }

func (r NamespaceListResponse) Failure() error      { return r.Result.Err }
func (r SelectedNamespacesResponse) Failure() error { return r.Result.Err }

// API resources

type APIResourcesGet struct{ request }
type APIResourcesSet struct {
	request
	Resources []scope.APIResource
}

// APIResourcesToggle adds or removes one kind, matched by resource and group.
type APIResourcesToggle struct {
	request
	Resource scope.APIResource
}

// AvailableAPIResourcesResponse lists the kinds the server offers.
type AvailableAPIResourcesResponse struct {
	Header
	Result Result[[]scope.APIResource]
}

// SelectedAPIResourcesResponse answers APIResourcesGet and APIResourcesSet.
type SelectedAPIResourcesResponse struct {
	Header
	Result Result[[]scope.APIResource]
}

// APIResourcesPollResponse carries the listing of every selected kind.
type APIResourcesPollResponse struct {
	Header
	Result Result[[]kube.ResourceTable]
}

func (APIResourcesGet) Area() Area               { return AreaAPIResources }
func (APIResourcesSet) Area() Area               { return AreaAPIResources }
func (APIResourcesToggle) Area() Area            { return AreaAPIResources }
func (AvailableAPIResourcesResponse) Area() Area { return AreaAPIResources }
func (SelectedAPIResourcesResponse) Area() Area  { return AreaAPIResources }
func (APIResourcesPollResponse) Area() Area      { return AreaAPIResources }

func (r AvailableAPIResourcesResponse) Failure() error { return r.Result.Err }
func (r SelectedAPIResourcesResponse) Failure() error  { return r.Result.Err }
func (r APIResourcesPollResponse) Failure() error      { return r.Result.Err }

// Pod

// PodGet asks for an immediate pod list outside the poll cadence.
type PodGet struct{ request }

type PodResponse struct {
	Header
	Result Result[[]kube.PodInfo]
}

func (PodGet) Area() Area            { return AreaPod }
func (PodResponse) Area() Area       { return AreaPod }
func (r PodResponse) Failure() error { return r.Result.Err }

// Event

type EventGet struct{ request }

type EventResponse struct {
	Header
	Result Result[[]kube.EventInfo]
}

func (EventGet) Area() Area            { return AreaEvent }
func (EventResponse) Area() Area       { return AreaEvent }
func (r EventResponse) Failure() error { return r.Result.Err }

// Log

// LogFollow starts following a container log, replacing any other follow.
type LogFollow struct {
	request
	Container kube.ContainerRef
}

// LogStop stops following a container log.
type LogStop struct {
	request
	Container kube.ContainerRef
}

// LogResponse carries one batch of lines. A failed result ends the follow.
type LogResponse struct {
	Header
	Container kube.ContainerRef
	Result    Result[[]string]
}

func (LogFollow) Area() Area         { return AreaLog }
func (LogStop) Area() Area           { return AreaLog }
func (LogResponse) Area() Area       { return AreaLog }
func (r LogResponse) Failure() error { return r.Result.Err }

// Config

type ConfigGet struct{ request }

// ConfigSet fetches the content of one ConfigMap or Secret.
type ConfigSet struct {
	request
	Ref kube.ObjectRef
}

type ConfigResponse struct {
	Header
	Result Result[[]kube.ConfigInfo]
}

type ConfigDataResponse struct {
	Header
	Result Result[kube.ConfigData]
}

func (ConfigGet) Area() Area                { return AreaConfig }
func (ConfigSet) Area() Area                { return AreaConfig }
func (ConfigResponse) Area() Area           { return AreaConfig }
func (ConfigDataResponse) Area() Area       { return AreaConfig }
func (r ConfigResponse) Failure() error     { return r.Result.Err }
func (r ConfigDataResponse) Failure() error { return r.Result.Err }

// Network

type NetworkGet struct{ request }

// NetworkSet describes one Service, Ingress or NetworkPolicy.
type NetworkSet struct {
	request
	Ref kube.ObjectRef
}

type NetworkResponse struct {
	Header
	Result Result[[]kube.NetworkInfo]
}

type NetworkDescriptionResponse struct {
	Header
	Ref    kube.ObjectRef
	Result Result[string]
}

func (NetworkGet) Area() Area                       { return AreaNetwork }
func (NetworkSet) Area() Area                       { return AreaNetwork }
func (NetworkResponse) Area() Area                  { return AreaNetwork }
func (NetworkDescriptionResponse) Area() Area       { return AreaNetwork }
func (r NetworkResponse) Failure() error            { return r.Result.Err }
func (r NetworkDescriptionResponse) Failure() error { return r.Result.Err }

// Yaml

// YamlGet lists the objects of one kind.
type YamlGet struct {
	request
	Resource scope.APIResource
}

// YamlSet renders one object as YAML.
type YamlSet struct {
	request
	Ref kube.ObjectRef
}

type YamlListResponse struct {
	Header
	Resource scope.APIResource
	Result   Result[[]kube.ObjectRef]
}

type YamlResponse struct {
	Header
	Ref    kube.ObjectRef
	Result Result[string]
}

func (YamlGet) Area() Area                { return AreaYaml }
func (YamlSet) Area() Area                { return AreaYaml }
func (YamlListResponse) Area() Area       { return AreaYaml }
func (YamlResponse) Area() Area           { return AreaYaml }
func (r YamlListResponse) Failure() error { return r.Result.Err }
func (r YamlResponse) Failure() error     { return r.Result.Err }

// Get

// GetSet fetches the summary of one object.
type GetSet struct {
	request
	Ref kube.ObjectRef
}

type GetResponse struct {
	Header
	Result Result[kube.Summary]
}

func (GetSet) Area() Area            { return AreaGet }
func (GetResponse) Area() Area       { return AreaGet }
func (r GetResponse) Failure() error { return r.Result.Err }
