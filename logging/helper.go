package logging

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// Error chain field keys added to every normalized error record.
const (
	FieldErrorChain   = "error_chain"
	FieldErrorRoot    = "error_root"
	FieldErrorHistory = "error_history"
	FieldErrorOps     = "error_ops"
	FieldErrorRootOp  = "error_root_op"
)

// parseLevel parses a string log level into a zerolog.Level.
// Returns zerolog.NoLevel and an error if parsing fails or the string is empty.
func parseLevel(level string) (zerolog.Level, error) {
	const op smerrors.Op = "logging.parseLevel"
	if strings.TrimSpace(level) == emptyString {
		return zerolog.NoLevel, smerrors.New(op).Msg(errMsgInvalidLevel)
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, smerrors.New(op).Err(err).Msg(errMsgInvalidLevel)
	}
	return l, nil
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// Each link is inspected on its own: a DetailedError link is followed via
// Cause(), any other link via stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := err.(*smerrors.DetailedError); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, emptyString)
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return emptyString
	}
	return strings.Join(chain, " -> ")
}

// addErrorChain records the cause chain of err in fields. For a single-link
// chain only the operation is added; the message field already holds the rest.
func addErrorChain(fields Fields, err error) {
	chain, ops, root, rootOp := buildErrorChain(err)
	if rootOp != emptyString {
		fields[FieldErrorRootOp] = rootOp
	}
	if len(chain) < 2 {
		return
	}
	fields[FieldErrorChain] = chain
	fields[FieldErrorRoot] = root
	fields[FieldErrorHistory] = joinChain(chain)
	fields[FieldErrorOps] = ops
}

// asInChain returns the first link of err's cause chain that implements T.
// Like buildErrorChain it follows DetailedError.Cause() before errors.Unwrap.
func asInChain[T any](err error) (T, bool) {
	const maxDepth = 50
	var zero T
	for i := 0; err != nil && i < maxDepth; i++ {
		if t, ok := err.(T); ok {
			return t, true
		}
		if dErr, ok := err.(*smerrors.DetailedError); ok && dErr != nil {
			err = dErr.Cause()
			continue
		}
		err = stderrs.Unwrap(err)
	}
	return zero, false
}

// ErrorCode returns the code of the first link in err's cause chain that
// implements ErrorCode(), or "" when none does.
func ErrorCode(err error) string {
	if coder, ok := asInChain[errorCoder](err); ok {
		return coder.ErrorCode()
	}
	return emptyString
}
