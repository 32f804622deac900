package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"kubepane/internal/scope"
)

// maxParallelLists bounds the list calls one fan-out runs at a time.
const maxParallelLists = 8

// fanOut runs list once per namespace concurrently and concatenates the
// results in namespace order. A failing namespace does not cancel the others:
// the rows that were listed come back with a *PartialError naming the
// failures. Only when every namespace fails is the result empty, with the
// first failure as the error.
func fanOut[T any](ctx context.Context, namespaces []string, list func(ctx context.Context, ns string) ([]T, error)) ([]T, error) {
	results := make([][]T, len(namespaces))
	errs := make([]error, len(namespaces))
	var g errgroup.Group
	g.SetLimit(maxParallelLists)
	for i, ns := range namespaces {
		g.Go(func() error {
			results[i], errs[i] = list(ctx, ns)
			return nil
		})
	}
	_ = g.Wait()

	var (
		out    []T
		failed []NamespaceError
	)
	for i, r := range results {
		if errs[i] != nil {
			failed = append(failed, NamespaceError{Namespace: namespaces[i], Err: errs[i]})
			continue
		}
		out = append(out, r...)
	}
	switch {
	case len(failed) == 0:
		return out, nil
	case len(failed) == len(namespaces):
		return nil, failed[0].Err
	default:
		return out, &PartialError{Failed: failed}
	}
}

// Namespaces lists the cluster's namespaces. The list is not filtered by the
// selection so the user can pick from all of them.
func (g *Gateway) Namespaces(ctx context.Context, t scope.Target) ([]NamespaceInfo, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	list, err := cs.typed.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, Classify("list namespaces", err)
	}
	out := make([]NamespaceInfo, 0, len(list.Items))
	for _, ns := range list.Items {
		out = append(out, NamespaceInfo{
			Name:    ns.Name,
			Phase:   string(ns.Status.Phase),
			Created: ns.CreationTimestamp.Time,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Pods lists the pods of the selected namespaces.
func (g *Gateway) Pods(ctx context.Context, t scope.Target) ([]PodInfo, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	pods, err := fanOut(ctx, namespacesOf(t), func(ctx context.Context, ns string) ([]PodInfo, error) {
		list, err := cs.typed.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]PodInfo, 0, len(list.Items))
		for i := range list.Items {
			out = append(out, podInfo(&list.Items[i]))
		}
		return out, nil
	})
	if err != nil && !IsPartial(err) {
		return nil, Classify("list pods", err)
	}
	sort.SliceStable(pods, func(i, j int) bool {
		if pods[i].Namespace != pods[j].Namespace {
			return pods[i].Namespace < pods[j].Namespace
		}
		return pods[i].Name < pods[j].Name
	})
	return pods, Classify("list pods", err)
}

func podInfo(p *corev1.Pod) PodInfo {
	info := PodInfo{
		Namespace: p.Namespace,
		Name:      p.Name,
		Node:      p.Spec.NodeName,
		Created:   p.CreationTimestamp.Time,
		Status:    string(p.Status.Phase),
	}
	for _, c := range p.Spec.Containers {
		info.Containers = append(info.Containers, c.Name)
	}

	ready := 0
	for _, cs := range p.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		info.Restarts += cs.RestartCount
		switch {
		case cs.State.Waiting != nil && cs.State.Waiting.Reason != "":
			info.Status = cs.State.Waiting.Reason
		case cs.State.Terminated != nil && cs.State.Terminated.Reason != "":
			info.Status = cs.State.Terminated.Reason
		}
	}
	if p.Status.Reason != "" {
		info.Status = p.Status.Reason
	}
	if p.DeletionTimestamp != nil {
		info.Status = "Terminating"
	}
	info.Ready = fmt.Sprintf("%d/%d", ready, len(p.Spec.Containers))
	return info
}

// Events lists the events of the selected namespaces, oldest first.
func (g *Gateway) Events(ctx context.Context, t scope.Target) ([]EventInfo, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	events, err := fanOut(ctx, namespacesOf(t), func(ctx context.Context, ns string) ([]EventInfo, error) {
		list, err := cs.typed.CoreV1().Events(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]EventInfo, 0, len(list.Items))
		for _, e := range list.Items {
			out = append(out, EventInfo{
				Namespace: e.Namespace,
				LastSeen:  eventTime(e),
				Type:      e.Type,
				Reason:    e.Reason,
				Object:    strings.ToLower(e.InvolvedObject.Kind) + "/" + e.InvolvedObject.Name,
				Message:   strings.TrimSpace(e.Message),
				Count:     e.Count,
			})
		}
		return out, nil
	})
	if err != nil && !IsPartial(err) {
		return nil, Classify("list events", err)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].LastSeen.Before(events[j].LastSeen) })
	return events, Classify("list events", err)
}

func eventTime(e corev1.Event) time.Time {
	switch {
	case !e.LastTimestamp.IsZero():
		return e.LastTimestamp.Time
	case !e.EventTime.IsZero():
		return e.EventTime.Time
	default:
		return e.CreationTimestamp.Time
	}
}

// Configs lists ConfigMaps and Secrets of the selected namespaces.
func (g *Gateway) Configs(ctx context.Context, t scope.Target) ([]ConfigInfo, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	configs, err := fanOut(ctx, namespacesOf(t), func(ctx context.Context, ns string) ([]ConfigInfo, error) {
		cms, err := cs.typed.CoreV1().ConfigMaps(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		secrets, err := cs.typed.CoreV1().Secrets(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]ConfigInfo, 0, len(cms.Items)+len(secrets.Items))
		for _, cm := range cms.Items {
			out = append(out, ConfigInfo{
				Kind:      KindConfigMap,
				Namespace: cm.Namespace,
				Name:      cm.Name,
				Keys:      len(cm.Data) + len(cm.BinaryData),
				Created:   cm.CreationTimestamp.Time,
			})
		}
		for _, s := range secrets.Items {
			out = append(out, ConfigInfo{
				Kind:      KindSecret,
				Namespace: s.Namespace,
				Name:      s.Name,
				Keys:      len(s.Data),
				Created:   s.CreationTimestamp.Time,
			})
		}
		return out, nil
	})
	if err != nil && !IsPartial(err) {
		return nil, Classify("list configs", err)
	}
	sort.SliceStable(configs, func(i, j int) bool {
		a, b := configs[i], configs[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
	return configs, Classify("list configs", err)
}

// ConfigData fetches the content of one ConfigMap or Secret.
func (g *Gateway) ConfigData(ctx context.Context, t scope.Target, ref ObjectRef) (ConfigData, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return ConfigData{}, err
	}
	data := ConfigData{Ref: ref}
	switch ref.Resource.Resource {
	case SecretsResource.Resource:
		s, err := cs.typed.CoreV1().Secrets(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			return ConfigData{}, Classify("get secret", err)
		}
		for k, v := range s.Data {
			data.Data = append(data.Data, KeyValue{Key: k, Value: string(v)})
		}
	case ConfigMapsResource.Resource:
		cm, err := cs.typed.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			return ConfigData{}, Classify("get configmap", err)
		}
		for k, v := range cm.Data {
			data.Data = append(data.Data, KeyValue{Key: k, Value: v})
		}
		for k, v := range cm.BinaryData {
			data.Data = append(data.Data, KeyValue{Key: k, Value: fmt.Sprintf("<binary, %d bytes>", len(v))})
		}
	default:
		return ConfigData{}, &Error{Kind: KindProtocol, Op: "get config", Err: fmt.Errorf("%s is not a config resource", ref.Resource)}
	}
	sort.Slice(data.Data, func(i, j int) bool { return data.Data[i].Key < data.Data[j].Key })
	return data, nil
}

// Networks lists Services, Ingresses and NetworkPolicies of the selected namespaces.
func (g *Gateway) Networks(ctx context.Context, t scope.Target) ([]NetworkInfo, error) {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return nil, err
	}
	items, err := fanOut(ctx, namespacesOf(t), func(ctx context.Context, ns string) ([]NetworkInfo, error) {
		svcs, err := cs.typed.CoreV1().Services(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		ings, err := cs.typed.NetworkingV1().Ingresses(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		pols, err := cs.typed.NetworkingV1().NetworkPolicies(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}

		var out []NetworkInfo
		for _, s := range svcs.Items {
			ports := make([]string, 0, len(s.Spec.Ports))
			for _, p := range s.Spec.Ports {
				ports = append(ports, fmt.Sprintf("%d/%s", p.Port, p.Protocol))
			}
			out = append(out, NetworkInfo{
				Kind:      KindService,
				Namespace: s.Namespace,
				Name:      s.Name,
				Detail:    fmt.Sprintf("%s %s %s", s.Spec.Type, s.Spec.ClusterIP, strings.Join(ports, ",")),
				Created:   s.CreationTimestamp.Time,
			})
		}
		for _, ing := range ings.Items {
			hosts := make([]string, 0, len(ing.Spec.Rules))
			for _, r := range ing.Spec.Rules {
				hosts = append(hosts, r.Host)
			}
			out = append(out, NetworkInfo{
				Kind:      KindIngress,
				Namespace: ing.Namespace,
				Name:      ing.Name,
				Detail:    strings.Join(hosts, ","),
				Created:   ing.CreationTimestamp.Time,
			})
		}
		for _, p := range pols.Items {
			out = append(out, NetworkInfo{
				Kind:      KindNetworkPolicy,
				Namespace: p.Namespace,
				Name:      p.Name,
				Detail:    metav1.FormatLabelSelector(&p.Spec.PodSelector),
				Created:   p.CreationTimestamp.Time,
			})
		}
		return out, nil
	})
	if err != nil && !IsPartial(err) {
		return nil, Classify("list network", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
	return items, Classify("list network", err)
}

// DescribeNetwork renders the object as YAML. Services additionally list the
// pods their selector matches.
func (g *Gateway) DescribeNetwork(ctx context.Context, t scope.Target, ref ObjectRef) (string, error) {
	text, err := g.YAML(ctx, t, ref)
	if err != nil {
		return "", err
	}
	if ref.Resource.Resource != ServicesResource.Resource {
		return text, nil
	}

	cs, err := g.forContext(t.Context)
	if err != nil {
		return "", err
	}
	svc, err := cs.typed.CoreV1().Services(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return "", Classify("get service", err)
	}
	if len(svc.Spec.Selector) == 0 {
		return text, nil
	}
	pods, err := cs.typed.CoreV1().Pods(ref.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labels.SelectorFromSet(svc.Spec.Selector).String(),
	})
	if err != nil {
		return "", Classify("list service pods", err)
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("---\n# selected pods\n")
	for _, p := range pods.Items {
		fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Status.Phase)
	}
	return b.String(), nil
}
