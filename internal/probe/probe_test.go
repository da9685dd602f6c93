package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Station-Manager/gqlkit/graphqlroute"
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/Station-Manager/gqlkit/reqctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type admin struct{ id string }

func (a admin) UserID() string { return a.id }
func (a admin) IsAdmin() bool  { return true }

func build(t *testing.T, u reqctx.User) *reqctx.Context {
	t.Helper()
	var resolve reqctx.UserResolver
	if u != nil {
		resolve = func(context.Context, *http.Request, *logging.Logger) (reqctx.User, error) { return u, nil }
	}
	// A nil root logger discards everything.
	var root *logging.Logger
	return reqctx.NewBuilder(root, resolve).Build(context.Background(), httptest.NewRequest(http.MethodPost, "/", nil), "Probe")
}

func TestExecute_Anonymous(t *testing.T) {
	res := New().Execute(context.Background(), graphqlroute.Params{Query: "{ viewer { id } }"}, build(t, nil))

	require.NotNil(t, res)
	assert.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"viewer": Viewer{}}, res.Data)
}

func TestExecute_Admin(t *testing.T) {
	res := New().Execute(context.Background(), graphqlroute.Params{Query: "{ viewer { id } }"}, build(t, admin{id: "a1"}))

	viewer := res.Data.(map[string]any)["viewer"].(Viewer)
	require.NotNil(t, viewer.ID)
	assert.Equal(t, "a1", *viewer.ID)
	assert.True(t, viewer.Authenticated)
	assert.True(t, viewer.IsAdmin)
}

func TestExecute_FailRequested(t *testing.T) {
	params := graphqlroute.Params{Query: "{ viewer { id } }", Variables: map[string]any{FailVariable: true}}
	res := New().Execute(context.Background(), params, build(t, nil))

	assert.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errMsgFailRequested, res.Errors[0].Error())
}
