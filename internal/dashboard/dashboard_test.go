package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubepane/internal/bus"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// rotatingHandler stands in for the worker manager: it records requests and
// rotates the scope on namespace changes.
type rotatingHandler struct {
	scope    *scope.Scope
	requests []protocol.Request
}

func (h *rotatingHandler) Handle(req protocol.Request) {
	h.requests = append(h.requests, req)
	if r, ok := req.(protocol.NamespaceSet); ok {
		h.scope.Rotate(func(t scope.Target) scope.Target { return t.WithNamespaces(r.Namespaces) })
	}
}

func newTestDispatcher() (*Dispatcher, *rotatingHandler, *scope.Scope) {
	sc := scope.New(scope.Target{Context: "dev"})
	h := &rotatingHandler{scope: sc}
	return NewDispatcher(sc, h, NewState(10)), h, sc
}

func podResponse(gen scope.Generation, names ...string) bus.Kube {
	pods := make([]kube.PodInfo, 0, len(names))
	for _, n := range names {
		pods = append(pods, kube.PodInfo{Name: n})
	}
	return bus.Kube{Msg: protocol.PodResponse{Header: protocol.Header{Gen: gen}, Result: protocol.Ok(pods)}}
}

// dev / all namespaces, then Set({"ns-a"}): the previous generation's pod
// response is dropped and the new generation's is applied.
func TestDispatcherDropsStaleAfterNamespaceSet(t *testing.T) {
	d, h, sc := newTestDispatcher()

	assert.True(t, d.Dispatch(podResponse(1, "old")))
	assert.Equal(t, "old", d.State().Pods[0].Name)

	d.Dispatch(bus.Kube{Msg: protocol.NamespaceSet{Namespaces: []string{"ns-a"}}})
	require.Len(t, h.requests, 1)
	assert.Equal(t, scope.Generation(2), sc.Generation())
	assert.Empty(t, d.State().Pods, "scoped data is reset on rotation")

	assert.False(t, d.Dispatch(podResponse(1, "late")))
	assert.Empty(t, d.State().Pods)
	assert.Equal(t, int64(1), d.Discarded())

	assert.True(t, d.Dispatch(podResponse(2, "pod-in-ns-a")))
	assert.Equal(t, "pod-in-ns-a", d.State().Pods[0].Name)
}

func TestDispatcherAppliesUnscopedResponses(t *testing.T) {
	d, _, sc := newTestDispatcher()
	sc.Rotate(func(t scope.Target) scope.Target { return t })

	applied := d.Dispatch(bus.Kube{Msg: protocol.ContextResponse{
		Header: protocol.Header{Gen: scope.Unscoped},
		Result: protocol.Ok([]kube.ContextInfo{{Name: "dev"}, {Name: "prod"}}),
	}})
	assert.True(t, applied)
	assert.Len(t, d.State().Contexts, 2)
	assert.Equal(t, int64(0), d.Discarded())
}

func TestDispatcherRecordsAndClearsErrors(t *testing.T) {
	d, _, _ := newTestDispatcher()
	failure := &kube.Error{Kind: kube.KindUnauthorized, Op: "list events", Err: errors.New("expired")}

	d.Dispatch(bus.Kube{Msg: protocol.EventResponse{Header: protocol.Header{Gen: 1}, Result: protocol.Fail[[]kube.EventInfo](failure)}})
	assert.Equal(t, failure, d.State().Errors[protocol.AreaEvent])

	d.Dispatch(bus.Kube{Msg: protocol.EventResponse{Header: protocol.Header{Gen: 1}, Result: protocol.Ok([]kube.EventInfo{{Reason: "Pulled"}})}})
	assert.NotContains(t, d.State().Errors, protocol.AreaEvent)
	assert.Len(t, d.State().Events, 1)
}

func TestDispatcherAppliesPartialResults(t *testing.T) {
	d, _, _ := newTestDispatcher()
	partial := &kube.PartialError{Failed: []kube.NamespaceError{{Namespace: "locked", Err: errors.New("forbidden")}}}

	d.Dispatch(bus.Kube{Msg: protocol.PodResponse{
		Header: protocol.Header{Gen: 1},
		Result: protocol.From([]kube.PodInfo{{Namespace: "a", Name: "web"}}, error(partial)),
	}})
	assert.Len(t, d.State().Pods, 1)
	assert.Equal(t, partial, d.State().Errors[protocol.AreaPod])
}

func TestDispatcherTickAndResize(t *testing.T) {
	d, _, _ := newTestDispatcher()
	now := time.Now()
	assert.True(t, d.Dispatch(bus.Tick{At: now}))
	assert.True(t, d.Dispatch(bus.Resize{Width: 120, Height: 40}))
	assert.False(t, d.Dispatch(bus.Input{}))

	assert.Equal(t, now, d.State().LastTick)
	assert.Equal(t, 120, d.State().Width)
	assert.Equal(t, 40, d.State().Height)
}

func TestStateLogFollow(t *testing.T) {
	d, h, _ := newTestDispatcher()
	web := kube.ContainerRef{Namespace: "a", Pod: "web", Container: "main"}
	other := kube.ContainerRef{Namespace: "a", Pod: "db", Container: "main"}

	d.Dispatch(bus.Kube{Msg: protocol.LogFollow{Container: web}})
	assert.Len(t, h.requests, 1)

	logMsg := func(ref kube.ContainerRef, lines ...string) bus.Kube {
		return bus.Kube{Msg: protocol.LogResponse{Header: protocol.Header{Gen: 1}, Container: ref, Result: protocol.Ok(lines)}}
	}
	d.Dispatch(logMsg(web, "a", "b", "c"))
	d.Dispatch(logMsg(other, "ignored"))
	assert.Equal(t, []string{"a", "b", "c"}, d.State().LogLines)

	for i := 0; i < 5; i++ {
		d.Dispatch(logMsg(web, "x", "y", "z"))
	}
	assert.Len(t, d.State().LogLines, 10, "capped at MaxLogLines")
	assert.Equal(t, "z", d.State().LogLines[9])

	d.Dispatch(bus.Kube{Msg: protocol.LogStop{Container: web}})
	d.Dispatch(logMsg(web, "after stop"))
	assert.NotContains(t, d.State().LogLines, "after stop")
}

func TestStateDetailResponses(t *testing.T) {
	s := NewState(0)
	assert.Equal(t, DefaultMaxLogLines, s.MaxLogLines)

	ref := kube.ObjectRef{Resource: kube.ConfigMapsResource, Namespace: "a", Name: "settings"}
	s.Apply(protocol.ConfigDataResponse{Result: protocol.Ok(kube.ConfigData{Ref: ref, Data: []kube.KeyValue{
		{Key: "mode", Value: "fast"},
		{Key: "script", Value: "line1\nline2\n"},
	}})})
	assert.Equal(t, ref.String(), s.DetailTitle)
	assert.Equal(t, "mode: fast\nscript: |\n  line1\n  line2\n", s.Detail)

	s.Apply(protocol.GetResponse{Result: protocol.Ok(kube.Summary{
		Ref:    ref,
		Kind:   "ConfigMap",
		Labels: map[string]string{"b": "2", "a": "1"},
	})})
	assert.Contains(t, s.Detail, "Kind:       ConfigMap")
	assert.Contains(t, s.Detail, "Labels:\n  a=1\n  b=2\n")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "pod (gen-2): 2 pods", Describe(protocol.PodResponse{Header: protocol.Header{Gen: 2}, Result: protocol.Ok(make([]kube.PodInfo, 2))}))
	assert.Equal(t, "context (unscoped): 0 contexts", Describe(protocol.ContextResponse{}))
	assert.Contains(t, Describe(protocol.YamlResponse{Header: protocol.Header{Gen: 1}, Result: protocol.Fail[string](errors.New("gone"))}), "error: gone")
}

func TestRunDrainsUntilClosed(t *testing.T) {
	var out bytes.Buffer
	logging.InitForCLI(logging.LevelInfo, &out)

	b := bus.New()
	d, _, _ := newTestDispatcher()
	b.Publish(podResponse(1, "web"))
	b.Publish(podResponse(7, "stale"))
	b.Close()

	require.NoError(t, Run(context.Background(), b, d))
	assert.Equal(t, "web", d.State().Pods[0].Name)
	assert.Equal(t, int64(1), d.Discarded())
	assert.Contains(t, out.String(), "pod (gen-1): 1 pods")
}

func TestRunStopsOnContext(t *testing.T) {
	b := bus.New()
	d, _, _ := newTestDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Run(ctx, b, d))
}
