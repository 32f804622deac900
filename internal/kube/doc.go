// Package kube is the dashboard's Kubernetes API client.
//
// Workers talk to the cluster only through the Client interface. Gateway is
// the client-go implementation: it resolves kubeconfig contexts, keeps one
// typed and one dynamic clientset per context, fans list calls out across the
// selected namespaces and classifies every failure into an *Error.
//
// FakeClient is an in-memory Client for tests of code that consumes this
// package.
package kube
