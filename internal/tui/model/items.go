package model

import (
	"fmt"
	"strconv"
	"time"

	"kubepane/internal/kube"
	"kubepane/internal/scope"
)

// Item is one row of a pane together with what actions on it refer to.
type Item struct {
	Cells  []string
	Status string
	Marked bool

	Context   string
	Namespace string
	Pod       *kube.PodInfo
	Kind      *scope.APIResource
	Ref       *kube.ObjectRef
}

// Columns returns the header cells of pane p.
func Columns(p Pane) []string {
	switch p {
	case PaneContexts:
		return []string{"NAME", "CLUSTER", "NAMESPACE"}
	case PaneNamespaces:
		return []string{"NAME", "STATUS", "AGE"}
	case PanePods:
		return []string{"NAMESPACE", "NAME", "READY", "STATUS", "RESTARTS", "AGE"}
	case PaneEvents:
		return []string{"LAST SEEN", "TYPE", "REASON", "OBJECT", "MESSAGE"}
	case PaneConfigs:
		return []string{"KIND", "NAMESPACE", "NAME", "KEYS", "AGE"}
	case PaneNetwork:
		return []string{"KIND", "NAMESPACE", "NAME", "DETAIL", "AGE"}
	case PaneKinds:
		return []string{"RESOURCE", "KIND", "VERSION", "NAMESPACED"}
	case PaneResources:
		return []string{"RESOURCE", "NAMESPACE", "NAME", "AGE"}
	default:
		return nil
	}
}

// Items builds the rows of pane p from the dashboard state.
func (m *Model) Items(p Pane) []Item {
	s := m.State()
	now := time.Now()
	var items []Item

	switch p {
	case PaneContexts:
		current := s.CurrentContext
		if current == "" {
			current = m.Scope.Load().Target.Context
		}
		for _, c := range s.Contexts {
			items = append(items, Item{
				Cells:   []string{c.Name, c.Cluster, c.Namespace},
				Marked:  c.Name == current,
				Context: c.Name,
			})
		}

	case PaneNamespaces:
		selected := make(map[string]bool, len(s.SelectedNamespaces))
		for _, n := range s.SelectedNamespaces {
			selected[n] = true
		}
		for _, n := range s.Namespaces {
			items = append(items, Item{
				Cells:     []string{n.Name, n.Phase, Age(n.Created, now)},
				Status:    n.Phase,
				Marked:    selected[n.Name],
				Namespace: n.Name,
			})
		}

	case PanePods:
		for i := range s.Pods {
			pod := &s.Pods[i]
			ref := pod.Ref()
			items = append(items, Item{
				Cells:  []string{pod.Namespace, pod.Name, pod.Ready, pod.Status, strconv.Itoa(int(pod.Restarts)), Age(pod.Created, now)},
				Status: pod.Status,
				Marked: s.LogContainer.Pod == pod.Name && s.LogContainer.Namespace == pod.Namespace,
				Pod:    pod,
				Ref:    &ref,
			})
		}

	case PaneEvents:
		// Newest first on screen.
		for i := len(s.Events) - 1; i >= 0; i-- {
			e := s.Events[i]
			items = append(items, Item{
				Cells:  []string{Age(e.LastSeen, now), e.Type, e.Reason, e.Object, e.Message},
				Status: e.Type,
			})
		}

	case PaneConfigs:
		for _, c := range s.Configs {
			ref := c.Ref()
			items = append(items, Item{
				Cells: []string{c.Kind, c.Namespace, c.Name, strconv.Itoa(c.Keys), Age(c.Created, now)},
				Ref:   &ref,
			})
		}

	case PaneNetwork:
		for _, n := range s.Networks {
			ref := n.Ref()
			items = append(items, Item{
				Cells: []string{n.Kind, n.Namespace, n.Name, n.Detail, Age(n.Created, now)},
				Ref:   &ref,
			})
		}

	case PaneKinds:
		selected := make(map[string]bool, len(s.SelectedResources))
		for _, r := range s.SelectedResources {
			selected[r.String()] = true
		}
		for i := range s.AvailableResources {
			r := &s.AvailableResources[i]
			items = append(items, Item{
				Cells:  []string{r.String(), r.Kind, r.Version, strconv.FormatBool(r.Namespaced)},
				Marked: selected[r.String()],
				Kind:   r,
			})
		}

	case PaneResources:
		seen := make(map[kube.ObjectRef]bool)
		for _, table := range s.ResourceTables {
			if table.Err != nil {
				items = append(items, Item{
					Cells:  []string{table.Resource.String(), "", "Error", table.Err.Error()},
					Status: "Error",
				})
			}
			for _, row := range table.Rows {
				ref := kube.ObjectRef{Resource: table.Resource, Namespace: row.Namespace, Name: row.Name}
				seen[ref] = true
				items = append(items, Item{
					Cells: []string{table.Resource.String(), row.Namespace, row.Name, Age(row.Created, now)},
					Ref:   &ref,
				})
			}
		}
		for _, ref := range s.YamlObjects {
			if seen[ref] {
				continue
			}
			items = append(items, Item{
				Cells: []string{ref.Resource.String(), ref.Namespace, ref.Name, ""},
				Ref:   &ref,
			})
		}
	}
	return items
}

// Age renders the time since t the way kubectl does.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "0s"
	case d < 2*time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < 2*time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
