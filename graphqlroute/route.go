package graphqlroute

import (
	"context"
	stderrs "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/Station-Manager/gqlkit/reqctx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
)

// Options configures a Route.
type Options struct {
	Executor Executor
	// Endpoint defaults to DefaultEndpoint.
	Endpoint string
	// ResolveUser may be nil, in which case every request is anonymous.
	ResolveUser reqctx.UserResolver
	// MaskedErrors hides the message of errors that carry no ErrorCode().
	MaskedErrors bool
	// LandingPage serves a small HTML page to browsers that GET the endpoint
	// without a query.
	LandingPage bool
	// AllowedOrigins enables CORS for the listed origins. Empty disables CORS.
	AllowedOrigins []string
}

// Route is an http.Handler serving the GraphQL endpoint.
type Route struct {
	router   chi.Router
	executor Executor
	resolve  reqctx.UserResolver
	log      *logging.Logger
	endpoint string
	masked   bool
	landing  bool
}

// New builds the route. root is the process logger; every request derives
// its own child from it.
func New(opts Options, root *logging.Logger) (*Route, error) {
	const op errors.Op = "graphqlroute.New"
	if opts.Executor == nil {
		return nil, errors.New(op).Msg(errMsgNilExecutor)
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		return nil, errors.New(op).Msg(errMsgBadEndpoint)
	}

	rt := &Route{
		executor: opts.Executor,
		resolve:  opts.ResolveUser,
		log:      root,
		endpoint: endpoint,
		masked:   opts.MaskedErrors,
		landing:  opts.LandingPage,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, traceID(root), middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderTraceID},
			ExposedHeaders:   []string{HeaderTraceID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Get(endpoint, rt.handleGet)
	r.Post(endpoint, rt.handlePost)
	rt.router = r

	return rt, nil
}

func (rt *Route) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.router.ServeHTTP(w, r)
}

// Endpoint returns the path the route answers on.
func (rt *Route) Endpoint() string {
	return rt.endpoint
}

func (rt *Route) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("query") == "" {
		if rt.landing && wantsHTML(r) {
			rt.serveLanding(w)
			return
		}
		rt.writeRequestError(w, errMsgNoQuery)
		return
	}

	params := Params{
		Query:         q.Get("query"),
		OperationName: q.Get("operationName"),
	}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
			rt.writeRequestError(w, errMsgInvalidVars)
			return
		}
	}
	if raw := q.Get("extensions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Extensions); err != nil {
			rt.writeRequestError(w, errMsgInvalidExts)
			return
		}
	}

	rt.execute(w, r, params)
}

func (rt *Route) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrs.As(err, &tooLarge) {
			rt.writeError(w, http.StatusRequestEntityTooLarge, errMsgBodyTooLarge)
			return
		}
		rt.writeRequestError(w, errMsgInvalidJSON)
		return
	}

	var params Params
	if err = json.Unmarshal(body, &params); err != nil {
		rt.writeRequestError(w, errMsgInvalidJSON)
		return
	}
	if params.Query == "" {
		rt.writeRequestError(w, errMsgNoQuery)
		return
	}

	rt.execute(w, r, params)
}

func (rt *Route) execute(w http.ResponseWriter, r *http.Request, params Params) {
	root := rt.log
	if id := traceIDFrom(r.Context()); id != "" {
		root = root.Child(logging.Fields{FieldTraceID: id})
	}

	rc := reqctx.NewBuilder(root, rt.resolve).Build(r.Context(), r, params.OperationName)
	ctx := reqctx.WithContext(r.Context(), rc)

	result := rt.run(ctx, params, rc)
	resp := response{Data: result.Data}
	for _, err := range result.Errors {
		if err == nil {
			continue
		}
		resp.Errors = append(resp.Errors, rt.formatError(err, rc.Logger()))
	}

	rt.writeJSON(w, http.StatusOK, resp)
}

// run calls the executor. A panic becomes a single masked error so one bad
// resolver cannot take the connection down with it.
func (rt *Route) run(ctx context.Context, params Params, rc *reqctx.Context) (result *Result) {
	const op errors.Op = "graphqlroute.Route.run"
	defer func() {
		if rec := recover(); rec != nil {
			result = &Result{Errors: []error{
				errors.New(op).Msg(fmt.Sprintf("%s: %v", errMsgExecutorPanic, rec)),
			}}
		}
	}()

	result = rt.executor.Execute(ctx, params, rc)
	if result == nil {
		result = &Result{}
	}
	return result
}

// formatError converts err to its client form, masking it when required.
func (rt *Route) formatError(err error, log *logging.Logger) *Error {
	out := &Error{Message: err.Error()}
	var gqlErr *Error
	if stderrs.As(err, &gqlErr) {
		out.Message = gqlErr.Message
		out.Path = gqlErr.Path
		if len(gqlErr.Extensions) > 0 {
			out.Extensions = make(map[string]any, len(gqlErr.Extensions)+1)
			for k, v := range gqlErr.Extensions {
				out.Extensions[k] = v
			}
		}
	}

	if code := logging.ErrorCode(err); code != "" {
		if out.Extensions == nil {
			out.Extensions = map[string]any{}
		}
		out.Extensions["code"] = code
		return out
	}

	if rt.masked {
		log.LogError(err, logging.Fields{"path": out.Path}, errMsgUnexpected)
		return &Error{Message: errMsgMaskedError, Path: out.Path}
	}
	return out
}

func (rt *Route) writeRequestError(w http.ResponseWriter, msg string) {
	rt.writeError(w, http.StatusBadRequest, msg)
}

func (rt *Route) writeError(w http.ResponseWriter, status int, msg string) {
	rt.writeJSON(w, status, response{Errors: []*Error{{Message: msg}}})
}

func (rt *Route) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		rt.log.LogError(err, nil, "Failed to encode GraphQL response")
		status = http.StatusInternalServerError
		body = []byte(`{"errors":[{"message":"` + errMsgMaskedError + `"}]}`)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
