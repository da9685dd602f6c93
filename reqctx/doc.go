// Package reqctx builds the per-request context handed to GraphQL resolvers.
//
// A Builder resolves the calling user through an injected UserResolver and
// binds a child logging.Logger carrying the operation name and, once known,
// the user id. Build never fails: a missing request, a missing resolver or a
// resolver error all degrade to an anonymous Context.
package reqctx
