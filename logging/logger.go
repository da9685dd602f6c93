package logging

import (
	"github.com/rs/zerolog"
)

// Logger emits records to a shared Service with a fixed set of bound fields.
//
// A Logger is immutable: Child returns a new instance and never touches the
// receiver, so a Logger can be shared freely between goroutines. The zero
// value and a nil *Logger are valid and discard everything.
type Logger struct {
	sink   *Service
	fields Fields
}

func newLogger(sink *Service, fields Fields) *Logger {
	return &Logger{sink: sink, fields: fields}
}

// Child returns a logger whose bound fields are the receiver's fields
// overlaid with bindings. Keys in bindings win on conflict.
// Example: reqLogger := logger.Child(logging.Fields{"requestId": id})
func (l *Logger) Child(bindings Fields) *Logger {
	if l == nil {
		return nil
	}
	return newLogger(l.sink, l.fields.merge(bindings))
}

// Fields returns a copy of the bound fields.
func (l *Logger) Fields() Fields {
	if l == nil {
		return Fields{}
	}
	return l.fields.clone()
}

// Level returns the minimum level of the underlying sink.
func (l *Logger) Level() string {
	if l == nil {
		return zerolog.Disabled.String()
	}
	return l.sink.Level()
}

// Silent reports whether the underlying sink discards all records.
func (l *Logger) Silent() bool {
	if l == nil {
		return true
	}
	return l.sink.Silent()
}

func (l *Logger) Fatal(msg string)                      { l.log(zerolog.FatalLevel, nil, msg, false) }
func (l *Logger) FatalFields(fields Fields, msg string) { l.log(zerolog.FatalLevel, fields, msg, true) }
func (l *Logger) Error(msg string)                      { l.log(zerolog.ErrorLevel, nil, msg, false) }
func (l *Logger) ErrorFields(fields Fields, msg string) { l.log(zerolog.ErrorLevel, fields, msg, true) }
func (l *Logger) Warn(msg string)                       { l.log(zerolog.WarnLevel, nil, msg, false) }
func (l *Logger) WarnFields(fields Fields, msg string)  { l.log(zerolog.WarnLevel, fields, msg, true) }
func (l *Logger) Info(msg string)                       { l.log(zerolog.InfoLevel, nil, msg, false) }
func (l *Logger) InfoFields(fields Fields, msg string)  { l.log(zerolog.InfoLevel, fields, msg, true) }
func (l *Logger) Debug(msg string)                      { l.log(zerolog.DebugLevel, nil, msg, false) }
func (l *Logger) DebugFields(fields Fields, msg string) { l.log(zerolog.DebugLevel, fields, msg, true) }
func (l *Logger) Trace(msg string)                      { l.log(zerolog.TraceLevel, nil, msg, false) }
func (l *Logger) TraceFields(fields Fields, msg string) { l.log(zerolog.TraceLevel, fields, msg, true) }

// LogError normalizes err into a structured record and logs it at error
// level with the bound fields, context and the derived error fields, in
// increasing order of precedence. An empty msg is replaced by "Error".
//
// Normalization:
//   - error values: message, stack, plus code/meta when the chain exposes
//     ErrorCode() or ErrorMeta(), plus the error chain fields
//   - strings: message
//   - maps with string keys and structs: their own fields, shallow
//   - anything else (nil, numbers, nil pointers): nothing beyond context
//
// LogError never panics, whatever err is.
func (l *Logger) LogError(err any, context Fields, msg string) {
	if l == nil {
		return
	}
	if msg == emptyString {
		msg = DefaultErrorMessage
	}
	derived := safeNormalize(err)
	l.log(zerolog.ErrorLevel, context.merge(derived), msg, true)
}

func (l *Logger) log(level zerolog.Level, fields Fields, msg string, structured bool) {
	if l == nil || l.sink == nil {
		return
	}
	if !l.sink.enabled(level) {
		return
	}
	l.sink.echo(level, fields, msg, structured)
	l.sink.write(level, l.fields.merge(fields), msg)
}
