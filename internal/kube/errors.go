package kube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/clientcmd"
)

// ErrorKind categorizes API client failures.
type ErrorKind int

const (
	// KindInternal is anything not otherwise classified.
	KindInternal ErrorKind = iota
	// KindTransport covers connection failures and timeouts.
	KindTransport
	// KindProtocol covers malformed requests and undecodable responses.
	KindProtocol
	KindNotFound
	KindUnauthorized
	KindForbidden
	// KindCancelled is produced when the caller's context was cancelled.
	// It is filtered out before reaching the user.
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindCancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// Error is a classified API client failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NamespaceError is the failure of one namespace in a multi-namespace list.
type NamespaceError struct {
	Namespace string
	Err       error
}

// PartialError reports the namespaces whose listing failed while the others
// succeeded. It comes back together with the rows that were listed.
type PartialError struct {
	Failed []NamespaceError
}

func (e *PartialError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		parts[i] = fmt.Sprintf("namespace %q: %v", f.Namespace, f.Err)
	}
	return strings.Join(parts, "; ")
}

func (e *PartialError) Unwrap() []error {
	out := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		out[i] = f.Err
	}
	return out
}

// IsPartial reports whether err comes with a usable partial result.
func IsPartial(err error) bool {
	var perr *PartialError
	return errors.As(err, &perr)
}

// Classify wraps err into an *Error for operation op. A nil err stays nil and
// an err that is already classified keeps its kind.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

// KindOf returns the kind of a classified error, or KindInternal.
func KindOf(err error) ErrorKind {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	return classify(err)
}

// IsCancelled reports whether err only means the caller gave up.
func IsCancelled(err error) bool {
	return err != nil && KindOf(err) == KindCancelled
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	case apierrors.IsNotFound(err), clientcmd.IsContextNotFound(err):
		return KindNotFound
	case apierrors.IsUnauthorized(err):
		return KindUnauthorized
	case apierrors.IsForbidden(err):
		return KindForbidden
	case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err),
		apierrors.IsServiceUnavailable(err), apierrors.IsTooManyRequests(err),
		apierrors.IsInternalError(err):
		return KindTransport
	case apierrors.IsBadRequest(err), apierrors.IsInvalid(err),
		apierrors.IsMethodNotSupported(err), apierrors.IsNotAcceptable(err),
		apierrors.IsUnsupportedMediaType(err), runtime.IsNotRegisteredError(err):
		return KindProtocol
	}

	var (
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &netErr):
		return KindTransport
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindProtocol
	}

	if _, ok := err.(apierrors.APIStatus); ok {
		return KindProtocol
	}

	// client-go does not always keep the typed cause; fall back on the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"),
		strings.Contains(msg, "dial tcp"),
		strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "tls handshake"):
		return KindTransport
	case strings.Contains(msg, "the server could not find"),
		strings.Contains(msg, "no matches for kind"):
		return KindNotFound
	}
	return KindInternal
}
