package worker

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"kubepane/internal/bus"
	"kubepane/internal/config"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// LogFollowPrefix prefixes the handle identity of a log follow.
const LogFollowPrefix = "log-follow:"

// LogFollowID returns the handle identity of a log follow for ref.
func LogFollowID(ref kube.ContainerRef) string {
	return LogFollowPrefix + ref.String()
}

// LogFollowerFunc builds the worker that follows one container log.
type LogFollowerFunc func(b Base, ref kube.ContainerRef) Worker

// Options configures a Manager.
type Options struct {
	Intervals      config.IntervalsConfig
	RequestTimeout time.Duration
	// LogFollower builds log-follow workers. Without it LogFollow requests
	// are ignored.
	LogFollower LogFollowerFunc
	// ShutdownGrace bounds how long Shutdown waits for workers to return.
	ShutdownGrace time.Duration
}

// Manager owns every running worker. It is driven from the single UI loop:
// Start once, then Handle for each request, then Shutdown.
type Manager struct {
	client kube.Client
	scope  *scope.Scope
	sender bus.Sender
	opts   Options

	mu         sync.Mutex
	runCtx     context.Context
	cancelFunc context.CancelFunc
	genCancel  context.CancelFunc
	base       Base
	handles    map[string]*Handle
	unscoped   map[string]*Handle
	started    bool
}

// NewManager creates a Manager. Nothing runs until Start.
func NewManager(client kube.Client, sc *scope.Scope, sender bus.Sender, opts Options) *Manager {
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = 2 * time.Second
	}
	opts.Intervals = withDefaultIntervals(opts.Intervals)
	return &Manager{
		client:   client,
		scope:    sc,
		sender:   sender,
		opts:     opts,
		handles:  make(map[string]*Handle),
		unscoped: make(map[string]*Handle),
	}
}

// Start spawns the unscoped context poller and the first generation of
// scoped workers for the current scope.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.runCtx, m.cancelFunc = context.WithCancel(ctx)

	unscoped := Base{
		Generation: scope.Unscoped,
		Target:     m.scope.Load().Target,
		Scope:      m.scope,
		Sender:     m.sender,
		Client:     m.client,
		RunCtx:     m.runCtx,
		Timeout:    m.opts.RequestTimeout,
		token:      m.runCtx,
	}
	m.unscoped[ContextPollerID] = Spawn(unscoped, NewContextPoller(unscoped, m.opts.Intervals.Context))

	m.spawnGenerationLocked(m.scope.Load())
}

// Handle performs one request. Set and Toggle requests for Context, Namespace
// and APIResources rotate the generation before returning.
func (m *Manager) Handle(req protocol.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		logging.Warn("Manager", "dropping %T received before start", req)
		return
	}

	switch r := req.(type) {
	case protocol.ContextGet:
		m.replyCurrentContextLocked()
	case protocol.ContextSet:
		m.rotateLocked(func(t scope.Target) scope.Target {
			// Namespaces of one cluster mean nothing in another.
			return t.WithContext(r.Name).WithNamespaces(nil)
		})
		m.replyCurrentContextLocked()
		m.replyNamespacesLocked()

	case protocol.NamespaceGet:
		m.replyNamespacesLocked()
	case protocol.NamespaceSet:
		m.rotateLocked(func(t scope.Target) scope.Target { return t.WithNamespaces(r.Namespaces) })
		m.replyNamespacesLocked()
	case protocol.NamespaceToggle:
		m.rotateLocked(func(t scope.Target) scope.Target { return t.ToggleNamespace(r.Name) })
		m.replyNamespacesLocked()

	case protocol.APIResourcesGet:
		m.replyAPIResourcesLocked()
		m.spawnLocked(NewDiscovery(m.base))
	case protocol.APIResourcesSet:
		m.rotateLocked(func(t scope.Target) scope.Target { return t.WithAPIResources(r.Resources) })
		m.replyAPIResourcesLocked()
	case protocol.APIResourcesToggle:
		m.rotateLocked(func(t scope.Target) scope.Target { return t.ToggleAPIResource(r.Resource) })
		m.replyAPIResourcesLocked()

	case protocol.PodGet:
		m.spawnLocked(NewPodRefresh(m.base))
	case protocol.EventGet:
		m.spawnLocked(NewEventRefresh(m.base))
	case protocol.ConfigGet:
		m.spawnLocked(NewConfigRefresh(m.base))
	case protocol.ConfigSet:
		m.spawnLocked(NewConfigData(m.base, r.Ref))
	case protocol.NetworkGet:
		m.spawnLocked(NewNetworkRefresh(m.base))
	case protocol.NetworkSet:
		m.spawnLocked(NewNetworkDescribe(m.base, r.Ref))
	case protocol.YamlGet:
		m.spawnLocked(NewYamlList(m.base, r.Resource))
	case protocol.YamlSet:
		m.spawnLocked(NewYamlShow(m.base, r.Ref))
	case protocol.GetSet:
		m.spawnLocked(NewGet(m.base, r.Ref))

	case protocol.LogFollow:
		if m.opts.LogFollower == nil {
			logging.Warn("Manager", "log follow requested but no follower is configured")
			return
		}
		// One follow at a time.
		for id, h := range m.handles {
			if strings.HasPrefix(id, LogFollowPrefix) {
				h.Abort()
				delete(m.handles, id)
			}
		}
		m.spawnLocked(m.opts.LogFollower(m.base, r.Container))
	case protocol.LogStop:
		id := LogFollowID(r.Container)
		if h, ok := m.handles[id]; ok {
			h.Abort()
			delete(m.handles, id)
			logging.Debug("Manager", "stopped %s", id)
		}

	default:
		logging.Warn("Manager", "unhandled request %T", req)
	}
}

func (m *Manager) replyCurrentContextLocked() {
	snap := m.scope.Load()
	m.sender.Kube(protocol.CurrentContextResponse{
		Header: protocol.Header{Gen: snap.Generation},
		Result: protocol.Ok(snap.Target.Context),
	})
}

func (m *Manager) replyNamespacesLocked() {
	snap := m.scope.Load()
	m.sender.Kube(protocol.SelectedNamespacesResponse{
		Header: protocol.Header{Gen: snap.Generation},
		Result: protocol.Ok(append([]string(nil), snap.Target.Namespaces...)),
	})
}

func (m *Manager) replyAPIResourcesLocked() {
	snap := m.scope.Load()
	m.sender.Kube(protocol.SelectedAPIResourcesResponse{
		Header: protocol.Header{Gen: snap.Generation},
		Result: protocol.Ok(append([]scope.APIResource(nil), snap.Target.APIResources...)),
	})
}

// rotateLocked supersedes the current generation: bump and swap the scope,
// cancel every scoped handle without waiting, and spawn a fresh generation.
func (m *Manager) rotateLocked(next func(scope.Target) scope.Target) {
	snap := m.scope.Rotate(next)

	if m.genCancel != nil {
		m.genCancel()
	}
	m.handles = make(map[string]*Handle)

	logging.Info("Manager", "rotated to %s: %s", snap.Generation, snap.Target)
	m.spawnGenerationLocked(snap)
}

func (m *Manager) spawnGenerationLocked(snap scope.Snapshot) {
	token, cancel := context.WithCancel(m.runCtx)
	m.genCancel = cancel
	m.base = Base{
		Generation: snap.Generation,
		Target:     snap.Target,
		Scope:      m.scope,
		Sender:     m.sender,
		Client:     m.client,
		RunCtx:     m.runCtx,
		Timeout:    m.opts.RequestTimeout,
		token:      token,
	}

	iv := m.opts.Intervals
	m.spawnLocked(NewNamespacePoller(m.base, iv.Namespace))
	m.spawnLocked(NewPodPoller(m.base, iv.Pod))
	m.spawnLocked(NewEventPoller(m.base, iv.Event))
	m.spawnLocked(NewConfigPoller(m.base, iv.Config))
	m.spawnLocked(NewNetworkPoller(m.base, iv.Network))
	if len(snap.Target.APIResources) > 0 {
		m.spawnLocked(NewAPIResourcePoller(m.base, iv.APIResource))
	}
}

// spawnLocked starts w, superseding any handle with the same identity. The
// handle is forgotten once the worker returns.
func (m *Manager) spawnLocked(w Worker) {
	id := w.ID()
	if old, ok := m.handles[id]; ok {
		old.Abort()
	}
	h := Spawn(m.base, w)
	m.handles[id] = h
	if p, ok := w.(Poller); ok {
		logging.Debug("Manager", "spawned %s for %s every %s", id, h.Generation, p.Interval())
	}

	go func() {
		<-h.Done()
		m.mu.Lock()
		if m.handles[id] == h {
			delete(m.handles, id)
		}
		m.mu.Unlock()
	}()
}

// Generation returns the current generation.
func (m *Manager) Generation() scope.Generation {
	return m.scope.Generation()
}

// Handles returns the identity and generation of every live handle.
func (m *Manager) Handles() map[string]scope.Generation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]scope.Generation, len(m.handles)+len(m.unscoped))
	for id, h := range m.unscoped {
		out[id] = h.Generation
	}
	for id, h := range m.handles {
		out[id] = h.Generation
	}
	return out
}

// HandleIDs returns the sorted identities of every live handle.
func (m *Manager) HandleIDs() []string {
	handles := m.Handles()
	ids := make([]string, 0, len(handles))
	for id := range handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown cancels every worker and waits up to the shutdown grace period
// for them to return.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if !m.started || m.cancelFunc == nil {
		m.mu.Unlock()
		return
	}
	m.cancelFunc()
	var all []*Handle
	for _, h := range m.unscoped {
		all = append(all, h)
	}
	for _, h := range m.handles {
		all = append(all, h)
	}
	m.mu.Unlock()

	deadline := time.After(m.opts.ShutdownGrace)
	for _, h := range all {
		select {
		case <-h.Done():
		case <-deadline:
			logging.Warn("Manager", "shutdown grace expired with workers still running")
			return
		}
	}
	logging.Debug("Manager", "all workers stopped")
}

func withDefaultIntervals(iv config.IntervalsConfig) config.IntervalsConfig {
	def := config.GetDefaultConfig().Intervals
	for _, p := range []struct{ dst, def *time.Duration }{
		{&iv.Context, &def.Context},
		{&iv.Namespace, &def.Namespace},
		{&iv.Pod, &def.Pod},
		{&iv.Event, &def.Event},
		{&iv.Config, &def.Config},
		{&iv.Network, &def.Network},
		{&iv.APIResource, &def.APIResource},
		{&iv.Tick, &def.Tick},
	} {
		if *p.dst <= 0 {
			*p.dst = *p.def
		}
	}
	return iv
}
