package kube

import (
	"fmt"
	"time"

	"kubepane/internal/scope"
)

// ContextInfo describes one kubeconfig context.
type ContextInfo struct {
	Name      string
	Cluster   string
	User      string
	Namespace string
	Current   bool
}

// NamespaceInfo is one row of the namespace list.
type NamespaceInfo struct {
	Name    string
	Phase   string
	Created time.Time
}

// PodInfo is one row of the pod table.
type PodInfo struct {
	Namespace  string
	Name       string
	Ready      string
	Status     string
	Restarts   int32
	Node       string
	Created    time.Time
	Containers []string
}

// Ref returns the reference used to fetch the pod's details.
func (p PodInfo) Ref() ObjectRef {
	return ObjectRef{Resource: PodsResource, Namespace: p.Namespace, Name: p.Name}
}

// EventInfo is one row of the event table.
type EventInfo struct {
	Namespace string
	LastSeen  time.Time
	Type      string
	Reason    string
	Object    string
	Message   string
	Count     int32
}

// ConfigInfo is one ConfigMap or Secret.
type ConfigInfo struct {
	Kind      string
	Namespace string
	Name      string
	Keys      int
	Created   time.Time
}

// Ref returns the reference of the underlying object.
func (c ConfigInfo) Ref() ObjectRef {
	r := ConfigMapsResource
	if c.Kind == KindSecret {
		r = SecretsResource
	}
	return ObjectRef{Resource: r, Namespace: c.Namespace, Name: c.Name}
}

// KeyValue is one entry of a ConfigMap or Secret.
type KeyValue struct {
	Key   string
	Value string
}

// ConfigData is the decoded content of one ConfigMap or Secret, sorted by key.
type ConfigData struct {
	Ref  ObjectRef
	Data []KeyValue
}

// NetworkInfo is one Service, Ingress or NetworkPolicy.
type NetworkInfo struct {
	Kind      string
	Namespace string
	Name      string
	Detail    string
	Created   time.Time
}

// Ref returns the reference of the underlying object.
func (n NetworkInfo) Ref() ObjectRef {
	var r scope.APIResource
	switch n.Kind {
	case KindIngress:
		r = IngressesResource
	case KindNetworkPolicy:
		r = NetworkPoliciesResource
	default:
		r = ServicesResource
	}
	return ObjectRef{Resource: r, Namespace: n.Namespace, Name: n.Name}
}

// ResourceRow is one object of a generic resource listing.
type ResourceRow struct {
	Namespace string
	Name      string
	Created   time.Time
}

// ResourceTable lists the objects of one selected API resource kind. Err is
// set when the kind could not be listed, or only partly.
type ResourceTable struct {
	Resource scope.APIResource
	Rows     []ResourceRow
	Err      error
}

// ObjectRef identifies one object of any kind.
type ObjectRef struct {
	Resource  scope.APIResource
	Namespace string
	Name      string
}

func (r ObjectRef) String() string {
	if r.Namespace == "" {
		return fmt.Sprintf("%s/%s", r.Resource, r.Name)
	}
	return fmt.Sprintf("%s/%s/%s", r.Resource, r.Namespace, r.Name)
}

// ContainerRef identifies one container whose log can be followed.
type ContainerRef struct {
	Namespace string
	Pod       string
	Container string
}

func (c ContainerRef) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Namespace, c.Pod, c.Container)
}

// Summary is the short description shown for a single object.
type Summary struct {
	Ref         ObjectRef
	Kind        string
	APIVersion  string
	UID         string
	Created     time.Time
	Labels      map[string]string
	Annotations map[string]string
	Owners      []string
	Status      string
}

// Kind names used in the config and network tables.
const (
	KindConfigMap     = "ConfigMap"
	KindSecret        = "Secret"
	KindService       = "Service"
	KindIngress       = "Ingress"
	KindNetworkPolicy = "NetworkPolicy"
)

// Well-known resources backing the typed tables.
var (
	PodsResource            = builtin("", "v1", "pods", "Pod")
	ConfigMapsResource      = builtin("", "v1", "configmaps", KindConfigMap)
	SecretsResource         = builtin("", "v1", "secrets", KindSecret)
	ServicesResource        = builtin("", "v1", "services", KindService)
	IngressesResource       = builtin("networking.k8s.io", "v1", "ingresses", KindIngress)
	NetworkPoliciesResource = builtin("networking.k8s.io", "v1", "networkpolicies", KindNetworkPolicy)
)

func builtin(group, version, resource, kind string) scope.APIResource {
	r := scope.APIResource{Kind: kind, Namespaced: true}
	r.Group, r.Version, r.Resource = group, version, resource
	return r
}
