package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubepane/internal/bus"
	"kubepane/internal/config"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
)

func slowIntervals() config.IntervalsConfig {
	return config.IntervalsConfig{
		Context:     time.Hour,
		Namespace:   time.Hour,
		Pod:         time.Hour,
		Event:       time.Hour,
		Config:      time.Hour,
		Network:     time.Hour,
		APIResource: time.Hour,
		Tick:        time.Hour,
	}
}

// podsPerNamespace names each pod after the namespaces it was listed for.
func podsPerNamespace() *kube.FakeClient {
	return &kube.FakeClient{PodsFunc: func(t scope.Target) ([]kube.PodInfo, error) {
		if t.AllNamespaces() {
			return []kube.PodInfo{{Name: "pod-in-all"}}, nil
		}
		out := make([]kube.PodInfo, 0, len(t.Namespaces))
		for _, ns := range t.Namespaces {
			out = append(out, kube.PodInfo{Namespace: ns, Name: "pod-in-" + ns})
		}
		return out, nil
	}}
}

func startManager(t *testing.T, client kube.Client, target scope.Target, opts Options) (*Manager, *bus.Bus, *scope.Scope) {
	t.Helper()
	b := bus.New()
	sc := scope.New(target)
	if opts.Intervals == (config.IntervalsConfig{}) {
		opts.Intervals = slowIntervals()
	}
	m := NewManager(client, sc, b.Sender(), opts)
	m.Start(context.Background())
	t.Cleanup(m.Shutdown)
	return m, b, sc
}

func TestManagerStartSpawnsFirstGeneration(t *testing.T) {
	m, _, _ := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev"}, Options{})

	handles := m.Handles()
	assert.Equal(t, scope.Unscoped, handles[ContextPollerID])
	for _, id := range []string{NamespacePollerID, PodPollerID, EventPollerID, ConfigPollerID, NetworkPollerID} {
		assert.Equal(t, scope.Generation(1), handles[id], id)
	}
	assert.NotContains(t, handles, APIResourcePollerID, "no kinds selected")
}

// dev / all namespaces, then Set({"ns-a"}): the generation moves by one,
// scoped pollers come back under it, the context poller is left alone, and
// the new pod poller lists ns-a.
func TestManagerNamespaceSetRotatesGeneration(t *testing.T) {
	client := podsPerNamespace()
	m, b, sc := startManager(t, client, scope.Target{Context: "dev"}, Options{})

	first := nextResponse(t, b, isType[protocol.PodResponse]).(protocol.PodResponse)
	assert.Equal(t, scope.Generation(1), first.Generation())
	assert.Equal(t, "pod-in-all", first.Result.Value[0].Name)

	m.Handle(protocol.NamespaceSet{Namespaces: []string{"ns-a"}})

	assert.Equal(t, scope.Generation(2), sc.Generation())
	assert.Equal(t, []string{"ns-a"}, sc.Load().Target.Namespaces)
	assert.Equal(t, "dev", sc.Load().Target.Context)

	handles := m.Handles()
	assert.Equal(t, scope.Generation(2), handles[PodPollerID])
	assert.Equal(t, scope.Generation(2), handles[EventPollerID])
	assert.Equal(t, scope.Generation(2), handles[NetworkPollerID])
	assert.Equal(t, scope.Unscoped, handles[ContextPollerID])
	assert.LessOrEqual(t, client.Calls("Contexts"), 1)

	selected := nextResponse(t, b, isType[protocol.SelectedNamespacesResponse]).(protocol.SelectedNamespacesResponse)
	assert.Equal(t, scope.Generation(2), selected.Generation())
	assert.Equal(t, []string{"ns-a"}, selected.Result.Value)

	second := nextResponse(t, b, func(r protocol.Response) bool {
		p, ok := r.(protocol.PodResponse)
		return ok && p.Generation() == 2
	}).(protocol.PodResponse)
	assert.Equal(t, "pod-in-ns-a", second.Result.Value[0].Name)
}

func TestManagerTogglesComposeAgainstCurrentScope(t *testing.T) {
	m, b, sc := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev"}, Options{})

	m.Handle(protocol.NamespaceToggle{Name: "b"})
	m.Handle(protocol.NamespaceToggle{Name: "c"})

	snap := sc.Load()
	assert.Equal(t, scope.Generation(3), snap.Generation)
	assert.Equal(t, []string{"b", "c"}, snap.Target.Namespaces)
	assert.Equal(t, scope.Generation(3), m.Handles()[PodPollerID])

	m.Handle(protocol.NamespaceToggle{Name: "b"})
	assert.Equal(t, []string{"c"}, sc.Load().Target.Namespaces)

	deploy, err := scope.ParseAPIResource("deployments.apps")
	require.NoError(t, err)
	m.Handle(protocol.APIResourcesToggle{Resource: deploy})
	assert.Equal(t, []scope.APIResource{deploy}, sc.Load().Target.APIResources)
	assert.Equal(t, sc.Generation(), m.Handles()[APIResourcePollerID])

	selected := nextResponse(t, b, func(r protocol.Response) bool {
		s, ok := r.(protocol.SelectedAPIResourcesResponse)
		return ok && len(s.Result.Value) == 1
	}).(protocol.SelectedAPIResourcesResponse)
	assert.Equal(t, deploy, selected.Result.Value[0])
}

func TestManagerGetIsIdempotent(t *testing.T) {
	m, b, sc := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev", Namespaces: []string{"a"}}, Options{})

	m.Handle(protocol.NamespaceGet{})
	m.Handle(protocol.NamespaceGet{})
	r1 := nextResponse(t, b, isType[protocol.SelectedNamespacesResponse])
	r2 := nextResponse(t, b, isType[protocol.SelectedNamespacesResponse])
	assert.Equal(t, r1, r2)
	assert.Equal(t, scope.Generation(1), sc.Generation())

	m.Handle(protocol.ContextGet{})
	cur := nextResponse(t, b, isType[protocol.CurrentContextResponse]).(protocol.CurrentContextResponse)
	assert.Equal(t, "dev", cur.Result.Value)
	assert.Equal(t, scope.Generation(1), sc.Generation())
}

func TestManagerContextSetResetsNamespaces(t *testing.T) {
	m, b, sc := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev", Namespaces: []string{"a"}}, Options{})

	m.Handle(protocol.ContextSet{Name: "prod"})

	snap := sc.Load()
	assert.Equal(t, scope.Generation(2), snap.Generation)
	assert.Equal(t, "prod", snap.Target.Context)
	assert.True(t, snap.Target.AllNamespaces())

	cur := nextResponse(t, b, isType[protocol.CurrentContextResponse]).(protocol.CurrentContextResponse)
	assert.Equal(t, "prod", cur.Result.Value)
	assert.Equal(t, scope.Generation(2), cur.Generation())
}

func TestManagerAPIResourcesSetSpawnsPoller(t *testing.T) {
	deploy, err := scope.ParseAPIResource("deployments.apps")
	require.NoError(t, err)
	client := &kube.FakeClient{
		ListResourcesFunc: func(t scope.Target) ([]kube.ResourceTable, error) {
			return []kube.ResourceTable{{Resource: t.APIResources[0]}}, nil
		},
		APIResourcesFunc: func(scope.Target) ([]scope.APIResource, error) {
			return []scope.APIResource{deploy}, nil
		},
	}
	m, b, _ := startManager(t, client, scope.Target{Context: "dev"}, Options{})

	m.Handle(protocol.APIResourcesSet{Resources: []scope.APIResource{deploy, deploy}})
	assert.Equal(t, scope.Generation(2), m.Handles()[APIResourcePollerID])

	sel := nextResponse(t, b, isType[protocol.SelectedAPIResourcesResponse]).(protocol.SelectedAPIResourcesResponse)
	assert.Equal(t, []scope.APIResource{deploy}, sel.Result.Value)

	poll := nextResponse(t, b, isType[protocol.APIResourcesPollResponse]).(protocol.APIResourcesPollResponse)
	assert.Equal(t, scope.Generation(2), poll.Generation())

	m.Handle(protocol.APIResourcesGet{})
	avail := nextResponse(t, b, isType[protocol.AvailableAPIResourcesResponse]).(protocol.AvailableAPIResourcesResponse)
	assert.Equal(t, []scope.APIResource{deploy}, avail.Result.Value)
}

func TestManagerOneShotRequests(t *testing.T) {
	ref := kube.ObjectRef{Resource: kube.ConfigMapsResource, Namespace: "a", Name: "settings"}
	client := &kube.FakeClient{
		ConfigDataFunc: func(_ scope.Target, r kube.ObjectRef) (kube.ConfigData, error) {
			return kube.ConfigData{Ref: r, Data: []kube.KeyValue{{Key: "k", Value: "v"}}}, nil
		},
		SummaryFunc: func(_ scope.Target, r kube.ObjectRef) (kube.Summary, error) {
			return kube.Summary{Ref: r, Kind: "ConfigMap"}, nil
		},
	}
	m, b, _ := startManager(t, client, scope.Target{Context: "dev"}, Options{})

	m.Handle(protocol.ConfigSet{Ref: ref})
	data := nextResponse(t, b, isType[protocol.ConfigDataResponse]).(protocol.ConfigDataResponse)
	assert.Equal(t, "v", data.Result.Value.Data[0].Value)
	assert.Equal(t, scope.Generation(1), data.Generation())

	m.Handle(protocol.GetSet{Ref: ref})
	get := nextResponse(t, b, isType[protocol.GetResponse]).(protocol.GetResponse)
	assert.Equal(t, "ConfigMap", get.Result.Value.Kind)

	m.Handle(protocol.PodGet{})
	assert.Eventually(t, func() bool { return client.Calls("Pods") >= 2 }, time.Second, 5*time.Millisecond)
}

// blockingFollower records the follows it was asked for and runs until aborted.
type blockingFollower struct {
	mu      sync.Mutex
	started []string
	stopped []string
}

type followWorker struct {
	f   *blockingFollower
	ref kube.ContainerRef
}

func (w followWorker) ID() string { return LogFollowID(w.ref) }

func (w followWorker) Run(ctx context.Context) {
	w.f.mu.Lock()
	w.f.started = append(w.f.started, w.ref.Pod)
	w.f.mu.Unlock()
	<-ctx.Done()
	w.f.mu.Lock()
	w.f.stopped = append(w.f.stopped, w.ref.Pod)
	w.f.mu.Unlock()
}

func (f *blockingFollower) stoppedPods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stopped...)
}

func TestManagerLogFollowAndStop(t *testing.T) {
	f := &blockingFollower{}
	opts := Options{LogFollower: func(b Base, ref kube.ContainerRef) Worker { return followWorker{f: f, ref: ref} }}
	m, _, _ := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev"}, opts)

	web := kube.ContainerRef{Namespace: "a", Pod: "web", Container: "main"}
	db := kube.ContainerRef{Namespace: "a", Pod: "db", Container: "main"}

	m.Handle(protocol.LogFollow{Container: web})
	assert.Contains(t, m.Handles(), LogFollowID(web))

	m.Handle(protocol.LogFollow{Container: db})
	handles := m.Handles()
	assert.NotContains(t, handles, LogFollowID(web))
	assert.Contains(t, handles, LogFollowID(db))
	assert.Eventually(t, func() bool { return len(f.stoppedPods()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"web"}, f.stoppedPods())

	m.Handle(protocol.LogStop{Container: db})
	assert.NotContains(t, m.Handles(), LogFollowID(db))
	assert.Eventually(t, func() bool { return len(f.stoppedPods()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestManagerRotationAbortsLogFollow(t *testing.T) {
	f := &blockingFollower{}
	opts := Options{LogFollower: func(b Base, ref kube.ContainerRef) Worker { return followWorker{f: f, ref: ref} }}
	m, _, _ := startManager(t, &kube.FakeClient{}, scope.Target{Context: "dev"}, opts)

	m.Handle(protocol.LogFollow{Container: kube.ContainerRef{Namespace: "a", Pod: "web", Container: "main"}})
	m.Handle(protocol.NamespaceSet{Namespaces: []string{"b"}})

	assert.Eventually(t, func() bool { return len(f.stoppedPods()) == 1 }, time.Second, 5*time.Millisecond)
	for id := range m.Handles() {
		assert.NotContains(t, id, LogFollowPrefix)
	}
}

func TestManagerShutdownStopsEverything(t *testing.T) {
	b := bus.New()
	m := NewManager(&kube.FakeClient{}, scope.New(scope.Target{}), b.Sender(), Options{Intervals: slowIntervals()})
	m.Start(context.Background())
	require.NotEmpty(t, m.HandleIDs())

	m.Shutdown()
	assert.Eventually(t, func() bool {
		ids := m.HandleIDs()
		return len(ids) == 1 && ids[0] == ContextPollerID
	}, time.Second, 5*time.Millisecond, "scoped handles are forgotten once their workers return")
}

func TestManagerIgnoresRequestsBeforeStart(t *testing.T) {
	b := bus.New()
	sc := scope.New(scope.Target{})
	m := NewManager(&kube.FakeClient{}, sc, b.Sender(), Options{})
	m.Handle(protocol.NamespaceSet{Namespaces: []string{"x"}})
	assert.Equal(t, scope.Generation(1), sc.Generation())
	assert.Equal(t, 0, b.Len())
}

func TestWithDefaultIntervals(t *testing.T) {
	iv := withDefaultIntervals(config.IntervalsConfig{Pod: 3 * time.Second})
	assert.Equal(t, 3*time.Second, iv.Pod)
	assert.Equal(t, config.GetDefaultConfig().Intervals.Event, iv.Event)
}
