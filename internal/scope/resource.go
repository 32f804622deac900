package scope

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// APIResource is one resource kind selectable in the Target.
type APIResource struct {
	schema.GroupVersionResource
	Kind       string
	Namespaced bool
}

// String renders the kind in kubectl's "resource.group" form.
func (r APIResource) String() string {
	if r.Group == "" {
		return r.Resource
	}
	return r.Resource + "." + r.Group
}

// ParseAPIResource parses "resource", "resource.group" or
// "resource.version.group" (kubectl's fully qualified form). The version may
// be left empty; the API client resolves it through discovery.
//
// Resources parsed from text are assumed namespaced until discovery says
// otherwise.
func ParseAPIResource(s string) (APIResource, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return APIResource{}, fmt.Errorf("empty resource name")
	}
	gvr, gr := schema.ParseResourceArg(strings.ToLower(s))
	if gvr != nil && looksLikeVersion(gvr.Version) {
		return APIResource{GroupVersionResource: *gvr, Namespaced: true}, nil
	}
	return APIResource{
		GroupVersionResource: gr.WithVersion(""),
		Namespaced:           true,
	}, nil
}

// ParseAPIResources parses every entry of in, failing on the first bad one.
func ParseAPIResources(in []string) ([]APIResource, error) {
	out := make([]APIResource, 0, len(in))
	for _, s := range in {
		r, err := ParseAPIResource(s)
		if err != nil {
			return nil, fmt.Errorf("invalid resource %q: %w", s, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func looksLikeVersion(v string) bool {
	return len(v) > 1 && v[0] == 'v' && v[1] >= '0' && v[1] <= '9'
}
