package scope

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestNewStartsAtGenerationOne(t *testing.T) {
	s := New(Target{Context: "dev"})
	snap := s.Load()
	assert.Equal(t, Generation(1), snap.Generation)
	assert.Equal(t, "dev", snap.Target.Context)
	assert.True(t, snap.Target.AllNamespaces())
}

func TestRotateBumpsGenerationAndSwapsTarget(t *testing.T) {
	s := New(Target{Context: "dev"})

	snap := s.Rotate(func(t Target) Target { return t.WithNamespaces([]string{"ns-a"}) })
	assert.Equal(t, Generation(2), snap.Generation)
	assert.Equal(t, []string{"ns-a"}, snap.Target.Namespaces)
	assert.Equal(t, "dev", snap.Target.Context)
	assert.Equal(t, snap, s.Load())
}

func TestIsCurrent(t *testing.T) {
	s := New(Target{})
	s.Rotate(func(t Target) Target { return t.WithContext("prod") })

	assert.True(t, s.IsCurrent(2))
	assert.False(t, s.IsCurrent(1))
	assert.False(t, s.IsCurrent(3))
	assert.True(t, s.IsCurrent(Unscoped))
}

func TestLoadIsIdempotent(t *testing.T) {
	s := New(Target{Context: "dev", Namespaces: []string{"a", "b"}})
	assert.Equal(t, s.Load(), s.Load())
}

func TestWithNamespacesDedupsInOrder(t *testing.T) {
	base := Target{Context: "dev"}
	got := base.WithNamespaces([]string{"b", "a", "", "b", "c"})
	assert.Equal(t, []string{"b", "a", "c"}, got.Namespaces)
	assert.Nil(t, base.Namespaces, "the original target is left untouched")

	assert.True(t, base.WithNamespaces(nil).AllNamespaces())
}

func TestToggleNamespace(t *testing.T) {
	all := Target{Context: "dev"}

	b := all.ToggleNamespace("b")
	assert.Equal(t, []string{"b"}, b.Namespaces)
	assert.True(t, all.AllNamespaces(), "the original target is left untouched")

	bc := b.ToggleNamespace("c")
	assert.Equal(t, []string{"b", "c"}, bc.Namespaces)
	assert.Equal(t, []string{"c"}, bc.ToggleNamespace("b").Namespaces)
	assert.True(t, b.ToggleNamespace("b").AllNamespaces(), "removing the last namespace selects all")
	assert.Equal(t, []string{"b"}, b.ToggleNamespace("").Namespaces)
}

func TestToggleAPIResourceMatchesByGroupResource(t *testing.T) {
	parsed, err := ParseAPIResource("deployments.apps")
	require.NoError(t, err)
	discovered := APIResource{
		GroupVersionResource: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
		Kind:                 "Deployment",
		Namespaced:           true,
	}

	selected := Target{Context: "dev", APIResources: []APIResource{parsed}}
	assert.Empty(t, selected.ToggleAPIResource(discovered).APIResources, "a discovered kind deselects its parsed twin")

	jobs, err := ParseAPIResource("jobs.batch")
	require.NoError(t, err)
	assert.Equal(t, []APIResource{parsed, jobs}, selected.ToggleAPIResource(jobs).APIResources)
}

// Readers racing a writer must only ever see targets the writer published as a whole.
func TestConcurrentReadersNeverSeeTornTarget(t *testing.T) {
	s := New(Target{Context: "ctx-0", Namespaces: []string{"ns-0"}})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.Load()
				if !assert.Len(t, snap.Target.Namespaces, 1) {
					return
				}
				// Context and namespace are always written together with matching suffixes.
				assert.Equal(t, snap.Target.Context[len("ctx-"):], snap.Target.Namespaces[0][len("ns-"):])
			}
		}()
	}

	for i := 1; i <= 200; i++ {
		n := i % 10
		s.Rotate(func(t Target) Target {
			return t.WithContext("ctx-" + string(rune('0'+n))).WithNamespaces([]string{"ns-" + string(rune('0'+n))})
		})
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, Generation(201), s.Generation())
}

func TestParseAPIResource(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.GroupVersionResource
		wantStr string
		wantErr bool
	}{
		{in: "pods", want: schema.GroupVersionResource{Resource: "pods"}, wantStr: "pods"},
		{in: "deployments.apps", want: schema.GroupVersionResource{Group: "apps", Resource: "deployments"}, wantStr: "deployments.apps"},
		{in: "deployments.v1.apps", want: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}, wantStr: "deployments.apps"},
		{in: "ingresses.networking.k8s.io", want: schema.GroupVersionResource{Group: "networking.k8s.io", Resource: "ingresses"}, wantStr: "ingresses.networking.k8s.io"},
		{in: " ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAPIResource(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.GroupVersionResource)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestParseAPIResourcesFailsOnBadEntry(t *testing.T) {
	_, err := ParseAPIResources([]string{"pods", ""})
	assert.Error(t, err)

	got, err := ParseAPIResources([]string{"pods", "services"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGenerationString(t *testing.T) {
	assert.Equal(t, "unscoped", Unscoped.String())
	assert.Equal(t, "gen-3", Generation(3).String())
}
