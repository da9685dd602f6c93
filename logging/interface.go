package logging

// Interface is the leveled method set of *Logger. Consumers that only emit
// records (and never derive children) should accept it instead of *Logger.
//
// Each level has a text form and a structured form. For the structured form
// an empty msg means the record carries no message.
type Interface interface {
	Fatal(msg string)
	FatalFields(fields Fields, msg string)
	Error(msg string)
	ErrorFields(fields Fields, msg string)
	Warn(msg string)
	WarnFields(fields Fields, msg string)
	Info(msg string)
	InfoFields(fields Fields, msg string)
	Debug(msg string)
	DebugFields(fields Fields, msg string)
	Trace(msg string)
	TraceFields(fields Fields, msg string)

	// LogError normalizes err and logs it at error level.
	LogError(err any, context Fields, msg string)
}

var _ Interface = (*Logger)(nil)
