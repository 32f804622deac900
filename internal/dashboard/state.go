// Package dashboard holds the view state the UI renders and the dispatcher
// that feeds it from the bus. It knows nothing about the terminal.
package dashboard

import (
	"time"

	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
)

// DefaultMaxLogLines caps the followed log when no limit is configured.
const DefaultMaxLogLines = 5000

// State is everything the dashboard displays. It is owned by the single
// consumer loop and must not be shared with workers.
type State struct {
	Contexts       []kube.ContextInfo
	CurrentContext string

	Namespaces         []kube.NamespaceInfo
	SelectedNamespaces []string

	AvailableResources []scope.APIResource
	SelectedResources  []scope.APIResource
	ResourceTables     []kube.ResourceTable

	Pods     []kube.PodInfo
	Events   []kube.EventInfo
	Configs  []kube.ConfigInfo
	Networks []kube.NetworkInfo

	// Detail is the most recent one-shot result (config data, network
	// description, YAML, summary), rendered as text.
	Detail      string
	DetailTitle string

	YamlResource scope.APIResource
	YamlObjects  []kube.ObjectRef

	LogContainer kube.ContainerRef
	LogLines     []string
	MaxLogLines  int

	// Errors holds the last failure per area until a success replaces it.
	Errors  map[protocol.Area]error
	Updated map[protocol.Area]time.Time

	LastTick time.Time
	Width    int
	Height   int
}

// NewState creates an empty State.
func NewState(maxLogLines int) *State {
	if maxLogLines <= 0 {
		maxLogLines = DefaultMaxLogLines
	}
	return &State{
		MaxLogLines: maxLogLines,
		Errors:      make(map[protocol.Area]error),
		Updated:     make(map[protocol.Area]time.Time),
	}
}

// Apply folds one current response into the state. A failure keeps the
// previous data unless the response carries a partial result.
func (s *State) Apply(r protocol.Response) {
	area := r.Area()
	if err := r.Failure(); err != nil {
		s.Errors[area] = err
		// A partial listing still replaces the rows.
		if !kube.IsPartial(err) {
			return
		}
	} else {
		delete(s.Errors, area)
	}
	s.Updated[area] = time.Now()

	switch v := r.(type) {
	case protocol.ContextResponse:
		s.Contexts = v.Result.Value
	case protocol.CurrentContextResponse:
		s.CurrentContext = v.Result.Value
	case protocol.NamespaceListResponse:
		s.Namespaces = v.Result.Value
	case protocol.SelectedNamespacesResponse:
		s.SelectedNamespaces = v.Result.Value
	case protocol.AvailableAPIResourcesResponse:
		s.AvailableResources = v.Result.Value
	case protocol.SelectedAPIResourcesResponse:
		s.SelectedResources = v.Result.Value
	case protocol.APIResourcesPollResponse:
		s.ResourceTables = v.Result.Value
	case protocol.PodResponse:
		s.Pods = v.Result.Value
	case protocol.EventResponse:
		s.Events = v.Result.Value
	case protocol.ConfigResponse:
		s.Configs = v.Result.Value
	case protocol.ConfigDataResponse:
		s.setDetail(v.Result.Value.Ref.String(), renderConfigData(v.Result.Value))
	case protocol.NetworkResponse:
		s.Networks = v.Result.Value
	case protocol.NetworkDescriptionResponse:
		s.setDetail(v.Ref.String(), v.Result.Value)
	case protocol.YamlListResponse:
		s.YamlResource = v.Resource
		s.YamlObjects = v.Result.Value
	case protocol.YamlResponse:
		s.setDetail(v.Ref.String(), v.Result.Value)
	case protocol.GetResponse:
		s.setDetail(v.Result.Value.Ref.String(), renderSummary(v.Result.Value))
	case protocol.LogResponse:
		s.appendLog(v.Container, v.Result.Value)
	}
}

func (s *State) setDetail(title, text string) {
	s.DetailTitle = title
	s.Detail = text
}

// StartLog clears the log pane for a new follow.
func (s *State) StartLog(ref kube.ContainerRef) {
	s.LogContainer = ref
	s.LogLines = nil
	delete(s.Errors, protocol.AreaLog)
}

// StopLog forgets the followed container.
func (s *State) StopLog() {
	s.LogContainer = kube.ContainerRef{}
}

func (s *State) appendLog(ref kube.ContainerRef, lines []string) {
	if ref != s.LogContainer {
		return
	}
	s.LogLines = append(s.LogLines, lines...)
	if over := len(s.LogLines) - s.MaxLogLines; over > 0 {
		s.LogLines = append([]string(nil), s.LogLines[over:]...)
	}
}

// ResetScoped drops data that belonged to the previous scope.
func (s *State) ResetScoped() {
	s.Pods = nil
	s.Events = nil
	s.Configs = nil
	s.Networks = nil
	s.ResourceTables = nil
	s.YamlObjects = nil
	s.Detail, s.DetailTitle = "", ""
	s.StopLog()
	s.LogLines = nil
	for _, a := range []protocol.Area{protocol.AreaPod, protocol.AreaEvent, protocol.AreaConfig,
		protocol.AreaNetwork, protocol.AreaAPIResources, protocol.AreaYaml, protocol.AreaGet, protocol.AreaLog} {
		delete(s.Errors, a)
	}
}
