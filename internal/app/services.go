package app

import (
	"fmt"
	"time"

	"kubepane/internal/bus"
	"kubepane/internal/config"
	"kubepane/internal/dashboard"
	"kubepane/internal/kube"
	"kubepane/internal/logcollect"
	"kubepane/internal/scope"
	"kubepane/internal/worker"
)

// Gateway is what the application needs from the API client: the worker
// contract plus the kubeconfig's current context for the initial scope.
type Gateway interface {
	kube.Client
	CurrentContext() (string, error)
}

// For mocking in tests
var newGateway = func(kubeconfig string, timeout time.Duration) Gateway {
	return kube.NewGateway(kubeconfig, timeout)
}

// Services holds the wired core components.
type Services struct {
	Gateway    Gateway
	Scope      *scope.Scope
	Bus        *bus.Bus
	State      *dashboard.State
	Dispatcher *dashboard.Dispatcher
	Manager    *worker.Manager
}

// InitializeServices builds the core from the loaded configuration: API
// gateway, Target Scope, bus, worker manager and dispatcher.
func InitializeServices(kc config.KubepaneConfig) (*Services, error) {
	gw := newGateway(kc.GlobalSettings.Kubeconfig, kc.GlobalSettings.RequestTimeout)

	target, err := initialTarget(kc.Scope, gw)
	if err != nil {
		return nil, err
	}

	sc := scope.New(target)
	b := bus.New()
	mgr := worker.NewManager(gw, sc, b.Sender(), worker.Options{
		Intervals:      kc.Intervals,
		RequestTimeout: kc.GlobalSettings.RequestTimeout,
		LogFollower:    logcollect.NewFollowerFunc(kc.Logs.TailLines, kc.Logs.FlushInterval),
	})
	state := dashboard.NewState(kc.Logs.MaxViewLines)

	return &Services{
		Gateway:    gw,
		Scope:      sc,
		Bus:        b,
		State:      state,
		Dispatcher: dashboard.NewDispatcher(sc, mgr, state),
		Manager:    mgr,
	}, nil
}

// initialTarget resolves the starting scope. An unset context falls back to
// the kubeconfig's current-context.
func initialTarget(sc config.ScopeConfig, gw Gateway) (scope.Target, error) {
	resources, err := scope.ParseAPIResources(sc.APIResources)
	if err != nil {
		return scope.Target{}, fmt.Errorf("invalid api resource: %w", err)
	}

	contextName := sc.Context
	if contextName == "" {
		contextName, err = gw.CurrentContext()
		if err != nil {
			return scope.Target{}, fmt.Errorf("failed to determine current kube context: %w", err)
		}
	}

	return scope.Target{Context: contextName}.
		WithNamespaces(sc.Namespaces).
		WithAPIResources(resources), nil
}
