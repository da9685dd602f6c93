package logging

const (
	emptyString = ""

	// DefaultErrorMessage tags LogError records when no message is given.
	DefaultErrorMessage = "Error"

	defaultLogFileName = "app"
)

const (
	errMsgNilConfig       = "Logging config is nil."
	errMsgNilService      = "Logger service is nil."
	errMsgAppCfgNotSet    = "Application config is not set."
	errMsgConfigInvalid   = "Logging configuration is invalid."
	errMsgWorkingDir      = "Working dir has not been set."
	errMsgLogDir          = "Failed to create logs directory."
	errMsgExecName        = "Failed to get executable name."
	errMsgInvalidLevel    = "Invalid logging level."
	errMsgFluentClient    = "Failed to create fluent client."
	errMsgShutdownTimeout = "Logger shutdown timeout exceeded"
	errMsgLogDirNotLocal  = "RelLogFileDir must be a relative path inside the working dir."
	errMsgFluentInvalid   = "Fluent configuration is invalid."
)

// Field keys written by LogError.
const (
	FieldMessage = "message"
	FieldStack   = "stack"
	FieldCode    = "code"
	FieldMeta    = "meta"
)
