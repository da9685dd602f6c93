// Package probe is a stand-in GraphQL executor for smoke-testing the route,
// auth and logging wiring without a schema.
package probe

import (
	"context"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/graphqlroute"
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/Station-Manager/gqlkit/reqctx"
)

// FailVariable makes Execute return an error when set to true, so masking
// can be checked end to end.
const FailVariable = "probeFail"

const errMsgFailRequested = "probe failure requested"

// Viewer is the caller as seen by the request context.
type Viewer struct {
	ID            *string `json:"id"`
	Authenticated bool    `json:"authenticated"`
	IsAdmin       bool    `json:"isAdmin"`
}

var _ graphqlroute.Executor = (*Executor)(nil)

// Executor answers every operation with the resolved viewer.
type Executor struct{}

func New() *Executor {
	return &Executor{}
}

func (e *Executor) Execute(_ context.Context, params graphqlroute.Params, rc *reqctx.Context) *graphqlroute.Result {
	const op errors.Op = "probe.Executor.Execute"
	log := rc.Logger()

	if fail, _ := params.Variables[FailVariable].(bool); fail {
		log.Debug("Probe failure requested")
		return &graphqlroute.Result{
			Errors: []error{graphqlroute.NewError(errors.New(op).Msg(errMsgFailRequested), "viewer")},
		}
	}

	scopes := rc.Scopes()
	viewer := Viewer{Authenticated: scopes.Authenticated, IsAdmin: scopes.IsAdmin}
	if user := rc.User(); user != nil {
		id := user.UserID()
		viewer.ID = &id
	}

	log.DebugFields(logging.Fields{"authenticated": viewer.Authenticated}, "Probe answered")
	return &graphqlroute.Result{Data: map[string]any{"viewer": viewer}}
}
