// Package graphqlroute serves a GraphQL endpoint over HTTP.
//
// The route owns transport concerns only: it decodes GET and POST requests,
// builds the per-request reqctx.Context, hands both to an Executor and writes
// the JSON response. Schema execution lives behind the Executor interface.
//
// Errors returned by the executor are masked when MaskedErrors is set: an
// error whose cause chain carries an ErrorCode() keeps its message and gets
// extensions.code, anything else is logged and replaced by "Unexpected error.".
package graphqlroute
