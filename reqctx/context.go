package reqctx

import (
	"context"
	"reflect"

	"github.com/Station-Manager/gqlkit/logging"
)

// User is the resolved caller. Implementations usually live with the store
// that loads them, see pgstore.User.
type User interface {
	UserID() string
}

// Admin is implemented by users that may hold the isAdmin scope.
type Admin interface {
	IsAdmin() bool
}

// Scopes are the auth scopes resolvers check before running.
type Scopes struct {
	Authenticated bool `json:"authenticated"`
	IsAdmin       bool `json:"isAdmin"`
}

// Context is the immutable per-request context. A nil User means anonymous.
type Context struct {
	user   User
	logger *logging.Logger
}

// User returns the resolved user, or nil for an anonymous request.
func (c *Context) User() User {
	if c == nil {
		return nil
	}
	return c.user
}

// Logger returns the request logger. It is never nil for a built Context.
func (c *Context) Logger() *logging.Logger {
	if c == nil {
		return nil
	}
	return c.logger
}

// Authenticated reports whether a user was resolved for the request.
func (c *Context) Authenticated() bool {
	return c.User() != nil
}

// Scopes derives the auth scopes for the request.
func (c *Context) Scopes() Scopes {
	user := c.User()
	if user == nil {
		return Scopes{}
	}
	scopes := Scopes{Authenticated: true}
	if admin, ok := user.(Admin); ok {
		scopes.IsAdmin = admin.IsAdmin()
	}
	return scopes
}

type contextKey struct{}

// WithContext returns a copy of parent carrying rc.
func WithContext(parent context.Context, rc *Context) context.Context {
	return context.WithValue(parent, contextKey{}, rc)
}

// FromContext returns the request context stored by WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	if ctx == nil {
		return nil, false
	}
	rc, ok := ctx.Value(contextKey{}).(*Context)
	return rc, ok && rc != nil
}

// isNilUser reports whether u is nil or a typed nil pointer.
func isNilUser(u User) bool {
	if u == nil {
		return true
	}
	v := reflect.ValueOf(u)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
