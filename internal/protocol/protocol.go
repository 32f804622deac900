// Package protocol defines the requests the UI sends to the worker manager
// and the responses workers publish back, one closed set per feature area.
package protocol

import (
	"kubepane/internal/scope"
)

// Area names a feature area of the dashboard.
type Area int

const (
	AreaContext Area = iota
	AreaNamespace
	AreaAPIResources
	AreaPod
	AreaEvent
	AreaLog
	AreaConfig
	AreaNetwork
	AreaYaml
	AreaGet
)

func (a Area) String() string {
	switch a {
	case AreaContext:
		return "context"
	case AreaNamespace:
		return "namespace"
	case AreaAPIResources:
		return "api-resources"
	case AreaPod:
		return "pod"
	case AreaEvent:
		return "event"
	case AreaLog:
		return "log"
	case AreaConfig:
		return "config"
	case AreaNetwork:
		return "network"
	case AreaYaml:
		return "yaml"
	case AreaGet:
		return "get"
	default:
		return "unknown"
	}
}

// Message is any request or response.
type Message interface {
	Area() Area
}

// Request is sent by the UI. Implementations are the *Get and *Set types of
// each area.
type Request interface {
	Message
	isRequest()
}

// Response is published by a worker.
type Response interface {
	Message
	// Generation is the generation of the worker that produced the response.
	Generation() scope.Generation
	// Failure returns the error carried by the response's result, if any.
	Failure() error
}

// Result carries either a value or the error that prevented producing it.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// From builds a result from a (value, error) pair. Both are kept: a list
// that failed only in part carries its rows next to the error.
func From[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// Header is embedded in every response.
type Header struct {
	Gen scope.Generation
}

// Generation implements Response.
func (h Header) Generation() scope.Generation {
	return h.Gen
}

type request struct{}

func (request) isRequest() {}
