package graphqlroute

const (
	DefaultEndpoint = "/api/graphql"

	HeaderTraceID = "X-Trace-ID"
	FieldTraceID  = "traceId"

	maxBodyBytes = 1 << 20
	contentType  = "application/json; charset=utf-8"
)

const (
	errMsgNilExecutor   = "executor cannot be nil"
	errMsgBadEndpoint   = "endpoint must start with '/'"
	errMsgMaskedError   = "Unexpected error."
	errMsgNoQuery       = "Must provide query string."
	errMsgInvalidJSON   = "POST body sent invalid JSON."
	errMsgInvalidVars   = "Variables are invalid JSON."
	errMsgInvalidExts   = "Extensions are invalid JSON."
	errMsgBodyTooLarge  = "Request body is too large."
	errMsgUnexpected    = "Unexpected error in resolver"
	errMsgExecutorPanic = "executor panicked"
)
