// Package scope holds the Target Scope: the cluster context, namespaces and
// API resource kinds the dashboard currently observes.
//
// A Scope is written by exactly one owner (the worker manager) and read by
// every worker. Writers publish a whole new Snapshot with a single pointer
// swap, so a reader always sees one consistent Target together with the
// generation it belongs to.
package scope

import (
	"fmt"
	"sync/atomic"
)

// Generation identifies one set of workers spawned for one Target.
type Generation uint64

// Unscoped marks workers and responses that do not depend on the Target
// (the kubeconfig context list). Such responses are never stale.
const Unscoped Generation = 0

func (g Generation) String() string {
	if g == Unscoped {
		return "unscoped"
	}
	return fmt.Sprintf("gen-%d", uint64(g))
}

// Target is what the dashboard observes. An empty Namespaces set means all
// namespaces.
//
// A Target handed out by a Scope is shared between goroutines and must not be
// modified in place; use the With* methods to derive a new one.
type Target struct {
	Context      string
	Namespaces   []string
	APIResources []APIResource
}

// AllNamespaces reports whether the target spans every namespace.
func (t Target) AllNamespaces() bool {
	return len(t.Namespaces) == 0
}

// WithContext returns a copy of t observing another context.
func (t Target) WithContext(name string) Target {
	out := t.clone()
	out.Context = name
	return out
}

// WithNamespaces returns a copy of t observing the given namespaces. Duplicates
// and empty names are dropped; first-seen order is kept.
func (t Target) WithNamespaces(namespaces []string) Target {
	out := t.clone()
	out.Namespaces = OrderedSet(nonEmpty(namespaces))
	return out
}

// WithAPIResources returns a copy of t observing the given resource kinds.
func (t Target) WithAPIResources(resources []APIResource) Target {
	out := t.clone()
	out.APIResources = OrderedSet(resources)
	return out
}

// ToggleNamespace returns a copy of t with name added to the selected
// namespaces, or removed when it was already selected. Removing the last one
// leaves all namespaces selected.
func (t Target) ToggleNamespace(name string) Target {
	if name == "" {
		return t.clone()
	}
	return t.WithNamespaces(toggle(t.Namespaces, name, func(a, b string) bool { return a == b }))
}

// ToggleAPIResource returns a copy of t with r added to the selected kinds,
// or removed when a kind with the same resource and group was selected.
func (t Target) ToggleAPIResource(r APIResource) Target {
	return t.WithAPIResources(toggle(t.APIResources, r, func(a, b APIResource) bool {
		return a.GroupResource() == b.GroupResource()
	}))
}

func toggle[T any](set []T, v T, same func(a, b T) bool) []T {
	out := make([]T, 0, len(set)+1)
	found := false
	for _, e := range set {
		if same(e, v) {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func (t Target) String() string {
	ns := "*"
	if !t.AllNamespaces() {
		ns = fmt.Sprintf("%v", t.Namespaces)
	}
	return fmt.Sprintf("context=%q namespaces=%s resources=%d", t.Context, ns, len(t.APIResources))
}

func (t Target) clone() Target {
	return Target{
		Context:      t.Context,
		Namespaces:   append([]string(nil), t.Namespaces...),
		APIResources: append([]APIResource(nil), t.APIResources...),
	}
}

// OrderedSet returns the distinct elements of in, in first-seen order.
func OrderedSet[T comparable](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Snapshot is one published state of a Scope.
type Snapshot struct {
	Generation Generation
	Target     Target
}

// Scope is the single-writer, many-reader holder of the current Snapshot.
type Scope struct {
	current atomic.Pointer[Snapshot]
}

// New creates a Scope at generation 1 holding initial.
func New(initial Target) *Scope {
	s := &Scope{}
	s.current.Store(&Snapshot{Generation: 1, Target: initial.clone()})
	return s
}

// Load returns the current snapshot.
func (s *Scope) Load() Snapshot {
	return *s.current.Load()
}

// Generation returns the current generation.
func (s *Scope) Generation() Generation {
	return s.current.Load().Generation
}

// IsCurrent reports whether a response stamped with g may be applied.
func (s *Scope) IsCurrent(g Generation) bool {
	return g == Unscoped || g == s.Generation()
}

// Rotate derives the next Target from the current one, bumps the generation
// and publishes both in one swap. It returns the new snapshot.
func (s *Scope) Rotate(next func(Target) Target) Snapshot {
	for {
		old := s.current.Load()
		snap := &Snapshot{
			Generation: old.Generation + 1,
			Target:     next(old.Target).clone(),
		}
		if s.current.CompareAndSwap(old, snap) {
			return *snap
		}
	}
}
