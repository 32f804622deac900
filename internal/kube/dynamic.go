package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/yaml"

	"kubepane/internal/scope"
)

// APIResources lists every listable resource kind at its preferred version.
func (g *Gateway) APIResources(ctx context.Context, t scope.Target) ([]scope.APIResource, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	out, err := discoverResources(cs.typed.Discovery())
	if err != nil {
		return nil, Classify("discover resources", err)
	}
	return out, nil
}

func discoverResources(d discovery.DiscoveryInterface) ([]scope.APIResource, error) {
	groups, lists, err := d.ServerGroupsAndResources()
	if err != nil && !discovery.IsGroupDiscoveryFailedError(err) {
		return nil, err
	}
	// A partial failure still leaves the groups that did answer.
	if len(lists) == 0 && err != nil {
		return nil, err
	}

	preferred := make(map[string]string, len(groups))
	for _, grp := range groups {
		preferred[grp.Name] = grp.PreferredVersion.Version
	}

	seen := make(map[schema.GroupResource]bool)
	var out []scope.APIResource
	for _, list := range lists {
		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil {
			continue
		}
		if v, ok := preferred[gv.Group]; ok && v != gv.Version {
			continue
		}
		for _, r := range list.APIResources {
			if strings.Contains(r.Name, "/") || !hasVerb(r.Verbs, "list") {
				continue
			}
			gr := schema.GroupResource{Group: gv.Group, Resource: r.Name}
			if seen[gr] {
				continue
			}
			seen[gr] = true
			res := scope.APIResource{Kind: r.Kind, Namespaced: r.Namespaced}
			res.GroupVersionResource = gv.WithResource(r.Name)
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func hasVerb(verbs metav1.Verbs, verb string) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// resolve fills in the version, kind and scope of a resource parsed from text.
func (g *Gateway) resolve(cs *clientsets, r scope.APIResource) (scope.APIResource, error) {
	if r.Version != "" {
		return r, nil
	}
	known, err := discoverResources(cs.typed.Discovery())
	if err != nil {
		return r, err
	}
	for _, k := range known {
		if k.Group == r.Group && k.Resource == r.Resource {
			return k, nil
		}
	}
	return r, &Error{Kind: KindNotFound, Op: "resolve resource", Err: fmt.Errorf("the server doesn't have a resource type %q", r.String())}
}

func (g *Gateway) resourceClient(cs *clientsets, r scope.APIResource, namespace string) dynamic.ResourceInterface {
	nri := cs.dynamic.Resource(r.GroupVersionResource)
	if r.Namespaced {
		return nri.Namespace(namespace)
	}
	return nri
}

// ListResources lists every kind of t.APIResources across the selected
// namespaces. A kind that cannot be listed keeps its failure in its table's
// Err and does not affect the others.
func (g *Gateway) ListResources(ctx context.Context, t scope.Target) ([]ResourceTable, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}

	tables := make([]ResourceTable, len(t.APIResources))
	var eg errgroup.Group
	for i, r := range t.APIResources {
		eg.Go(func() error {
			tables[i] = g.listTable(ctx, cs, t, r)
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, Classify("list resources", err)
	}
	return tables, nil
}

func (g *Gateway) listTable(ctx context.Context, cs *clientsets, t scope.Target, r scope.APIResource) ResourceTable {
	resolved, err := g.resolve(cs, r)
	if err != nil {
		return ResourceTable{Resource: r, Err: Classify("list "+r.String(), err)}
	}
	namespaces := []string{""}
	if resolved.Namespaced {
		namespaces = namespacesOf(t)
	}
	rows, err := fanOut(ctx, namespaces, func(ctx context.Context, ns string) ([]ResourceRow, error) {
		list, err := g.resourceClient(cs, resolved, ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]ResourceRow, 0, len(list.Items))
		for _, item := range list.Items {
			out = append(out, ResourceRow{
				Namespace: item.GetNamespace(),
				Name:      item.GetName(),
				Created:   item.GetCreationTimestamp().Time,
			})
		}
		return out, nil
	})
	return ResourceTable{Resource: resolved, Rows: rows, Err: Classify("list "+resolved.String(), err)}
}

// ListObjects lists the objects of one kind across the selected namespaces.
func (g *Gateway) ListObjects(ctx context.Context, t scope.Target, r scope.APIResource) ([]ObjectRef, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	resolved, err := g.resolve(cs, r)
	if err != nil {
		return nil, Classify("list objects", err)
	}
	namespaces := []string{""}
	if resolved.Namespaced {
		namespaces = namespacesOf(t)
	}
	refs, err := fanOut(ctx, namespaces, func(ctx context.Context, ns string) ([]ObjectRef, error) {
		list, err := g.resourceClient(cs, resolved, ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]ObjectRef, 0, len(list.Items))
		for _, item := range list.Items {
			out = append(out, ObjectRef{Resource: resolved, Namespace: item.GetNamespace(), Name: item.GetName()})
		}
		return out, nil
	})
	if err != nil && !IsPartial(err) {
		return nil, Classify("list objects", err)
	}
	return refs, Classify("list objects", err)
}

func (g *Gateway) getObject(ctx context.Context, t scope.Target, ref ObjectRef) (*unstructured.Unstructured, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	resolved, err := g.resolve(cs, ref.Resource)
	if err != nil {
		return nil, err
	}
	return g.resourceClient(cs, resolved, ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
}

// YAML renders one object as YAML without its managed fields.
func (g *Gateway) YAML(ctx context.Context, t scope.Target, ref ObjectRef) (string, error) {
	obj, err := g.getObject(ctx, t, ref)
	if err != nil {
		return "", Classify("get yaml", err)
	}
	obj.SetManagedFields(nil)
	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return "", &Error{Kind: KindProtocol, Op: "get yaml", Err: fmt.Errorf("marshal %s: %w", ref, err)}
	}
	return string(data), nil
}

// Summary fetches the metadata and status digest of one object.
func (g *Gateway) Summary(ctx context.Context, t scope.Target, ref ObjectRef) (Summary, error) {
	obj, err := g.getObject(ctx, t, ref)
	if err != nil {
		return Summary{}, Classify("get summary", err)
	}
	s := Summary{
		Ref:         ref,
		Kind:        obj.GetKind(),
		APIVersion:  obj.GetAPIVersion(),
		UID:         string(obj.GetUID()),
		Created:     obj.GetCreationTimestamp().Time,
		Labels:      obj.GetLabels(),
		Annotations: obj.GetAnnotations(),
		Status:      statusOf(obj),
	}
	for _, o := range obj.GetOwnerReferences() {
		s.Owners = append(s.Owners, o.Kind+"/"+o.Name)
	}
	return s, nil
}

// statusOf picks the most telling status field: phase, then the Ready
// condition, then the first condition present.
func statusOf(obj *unstructured.Unstructured) string {
	if phase, ok, _ := unstructured.NestedString(obj.Object, "status", "phase"); ok && phase != "" {
		return phase
	}
	conds, ok, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if !ok || len(conds) == 0 {
		return ""
	}
	pick := func(c interface{}) string {
		m, _ := c.(map[string]interface{})
		return fmt.Sprintf("%v=%v", m["type"], m["status"])
	}
	for _, c := range conds {
		if m, ok := c.(map[string]interface{}); ok && m["type"] == "Ready" {
			return pick(c)
		}
	}
	return pick(conds[0])
}
