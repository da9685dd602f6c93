package graphqlroute

import (
	"context"

	"github.com/Station-Manager/gqlkit/reqctx"
)

// Params is a decoded GraphQL request.
type Params struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// Result is what an Executor produced for one operation. Errors are
// formatted (and masked) by the route before they reach the client.
type Result struct {
	Data   any
	Errors []error
}

// Executor runs one GraphQL operation. rc is never nil; rc.User() is nil for
// anonymous requests.
type Executor interface {
	Execute(ctx context.Context, params Params, rc *reqctx.Context) *Result
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, params Params, rc *reqctx.Context) *Result

func (f ExecutorFunc) Execute(ctx context.Context, params Params, rc *reqctx.Context) *Result {
	return f(ctx, params, rc)
}

// Error is a GraphQL error as written to the client. Executors may return it
// directly to attach a path or extensions.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`

	cause error
}

// NewError wraps cause as a GraphQL error at path.
func NewError(cause error, path ...any) *Error {
	e := &Error{Path: path, cause: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

type response struct {
	Data   any      `json:"data,omitempty"`
	Errors []*Error `json:"errors,omitempty"`
}
