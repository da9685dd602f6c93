package reqctx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/logging"
)

// UserResolver loads the caller for r. It returns a nil User for an
// anonymous request; an error means resolution failed. The logger is the
// request logger already bound to the operation name.
type UserResolver func(ctx context.Context, r *http.Request, log *logging.Logger) (User, error)

// Builder produces a Context per request. It holds no per-request state and
// is safe for concurrent use.
type Builder struct {
	root    *logging.Logger
	resolve UserResolver
}

// NewBuilder returns a Builder deriving request loggers from root. A nil
// resolve makes every request anonymous.
func NewBuilder(root *logging.Logger, resolve UserResolver) *Builder {
	return &Builder{root: root, resolve: resolve}
}

// Build returns the context for one GraphQL operation. It never returns nil
// and never panics on resolver failure.
func (b *Builder) Build(ctx context.Context, r *http.Request, operationName string) *Context {
	logger := b.root.Child(logging.Fields{FieldOperationName: operationName})

	if r == nil {
		b.root.ErrorFields(logging.Fields{}, errMsgNoRequest)
		return &Context{logger: b.root}
	}

	if b.resolve == nil {
		return &Context{logger: logger}
	}

	if ctx == nil {
		ctx = r.Context()
	}

	user, err := b.resolveUser(ctx, r, logger)
	if err != nil {
		if ctx.Err() != nil {
			logger.WarnFields(logging.Fields{"cause": ctx.Err().Error(), "error": err.Error()}, errMsgCancelled)
			return &Context{logger: logger}
		}
		logger.LogError(err, nil, errMsgCreateContext)
		return &Context{logger: logger}
	}

	if isNilUser(user) {
		return &Context{logger: logger}
	}

	logger = logger.Child(logging.Fields{FieldUserID: user.UserID()})
	return &Context{user: user, logger: logger}
}

// resolveUser calls the resolver, turning a panic into an error.
func (b *Builder) resolveUser(ctx context.Context, r *http.Request, logger *logging.Logger) (user User, err error) {
	const op errors.Op = "reqctx.Builder.resolveUser"
	defer func() {
		if rec := recover(); rec != nil {
			user = nil
			if recErr, ok := rec.(error); ok {
				err = errors.New(op).Err(recErr).Msg(errMsgResolverPanic)
				return
			}
			err = errors.New(op).Msg(fmt.Sprintf("%s: %v", errMsgResolverPanic, rec))
		}
	}()

	user, err = b.resolve(ctx, r, logger)
	if err != nil {
		return nil, err
	}
	return user, nil
}
