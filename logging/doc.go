// Package logging provides a structured logger over rs/zerolog with bound
// child context and an optional synchronous console echo for development.
//
// Key features
//   - One process-wide sink (Service) configured at start-up and injected
//     into consumers through Service.Logger(); no package-level logger
//   - Immutable loggers: Child(fields) returns a new logger whose bound
//     fields are merged into every record it emits
//   - Two entry points per level: text (Info) and structured (InfoFields)
//   - LogError normalizes any value (errors, strings, maps, structs, nil)
//     into a structured error record and never panics; errors get their
//     full cause chain (outermost -> root) and Station-Manager operations
//   - Outputs: JSON lines on stdout, rolling files via lumberjack, and
//     Fluent Bit forwarding; graceful shutdown waits for in-flight records
//   - Development mode echoes "[LEVEL] message" lines to stdout/stderr
//
// Typical usage
//
//	svc := &logging.Service{WorkingDir: wd, Config: cfg}
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	log := svc.Logger()
//	log.InfoFields(logging.Fields{"userId": id}, "processed")
//	req := log.Child(logging.Fields{"operationName": op})
//	req.LogError(err, nil, "resolver failed")
package logging
