package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"kubepane/internal/kube"
	"kubepane/internal/protocol"
)

func renderConfigData(d kube.ConfigData) string {
	var b strings.Builder
	for _, kv := range d.Data {
		if strings.Contains(kv.Value, "\n") {
			fmt.Fprintf(&b, "%s: |\n", kv.Key)
			for _, line := range strings.Split(strings.TrimRight(kv.Value, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", kv.Key, kv.Value)
	}
	return b.String()
}

func renderSummary(s kube.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kind:       %s\n", s.Kind)
	fmt.Fprintf(&b, "APIVersion: %s\n", s.APIVersion)
	fmt.Fprintf(&b, "Name:       %s\n", s.Ref.Name)
	if s.Ref.Namespace != "" {
		fmt.Fprintf(&b, "Namespace:  %s\n", s.Ref.Namespace)
	}
	fmt.Fprintf(&b, "UID:        %s\n", s.UID)
	if !s.Created.IsZero() {
		fmt.Fprintf(&b, "Created:    %s\n", s.Created.Format("2006-01-02 15:04:05"))
	}
	if s.Status != "" {
		fmt.Fprintf(&b, "Status:     %s\n", s.Status)
	}
	if len(s.Owners) > 0 {
		fmt.Fprintf(&b, "Owners:     %s\n", strings.Join(s.Owners, ", "))
	}
	writeMap(&b, "Labels", s.Labels)
	writeMap(&b, "Annotations", s.Annotations)
	return b.String()
}

func writeMap(b *strings.Builder, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s=%s\n", k, m[k])
	}
}

// Describe renders a one-line account of a response for logs and the
// activity pane.
func Describe(r protocol.Response) string {
	if err := r.Failure(); err != nil {
		return fmt.Sprintf("%s (%s): error: %v", r.Area(), r.Generation(), err)
	}
	var detail string
	switch v := r.(type) {
	case protocol.ContextResponse:
		detail = fmt.Sprintf("%d contexts", len(v.Result.Value))
	case protocol.CurrentContextResponse:
		detail = "current " + v.Result.Value
	case protocol.NamespaceListResponse:
		detail = fmt.Sprintf("%d namespaces", len(v.Result.Value))
	case protocol.SelectedNamespacesResponse:
		detail = fmt.Sprintf("selected %v", v.Result.Value)
	case protocol.AvailableAPIResourcesResponse:
		detail = fmt.Sprintf("%d kinds available", len(v.Result.Value))
	case protocol.SelectedAPIResourcesResponse:
		detail = fmt.Sprintf("%d kinds selected", len(v.Result.Value))
	case protocol.APIResourcesPollResponse:
		rows, failed := 0, 0
		for _, t := range v.Result.Value {
			rows += len(t.Rows)
			if t.Err != nil {
				failed++
			}
		}
		detail = fmt.Sprintf("%d objects in %d kinds", rows, len(v.Result.Value))
		if failed > 0 {
			detail += fmt.Sprintf(", %d kinds failed", failed)
		}
	case protocol.PodResponse:
		detail = fmt.Sprintf("%d pods", len(v.Result.Value))
	case protocol.EventResponse:
		detail = fmt.Sprintf("%d events", len(v.Result.Value))
	case protocol.ConfigResponse:
		detail = fmt.Sprintf("%d configs", len(v.Result.Value))
	case protocol.ConfigDataResponse:
		detail = fmt.Sprintf("%s: %d keys", v.Result.Value.Ref, len(v.Result.Value.Data))
	case protocol.NetworkResponse:
		detail = fmt.Sprintf("%d network objects", len(v.Result.Value))
	case protocol.NetworkDescriptionResponse:
		detail = "described " + v.Ref.String()
	case protocol.YamlListResponse:
		detail = fmt.Sprintf("%d %s", len(v.Result.Value), v.Resource)
	case protocol.YamlResponse:
		detail = "yaml of " + v.Ref.String()
	case protocol.GetResponse:
		detail = "summary of " + v.Result.Value.Ref.String()
	case protocol.LogResponse:
		detail = fmt.Sprintf("%d lines from %s", len(v.Result.Value), v.Container)
	default:
		detail = fmt.Sprintf("%T", r)
	}
	return fmt.Sprintf("%s (%s): %s", r.Area(), r.Generation(), detail)
}
