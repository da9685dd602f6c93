package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// echo writes the development console line for one record:
//
//	[INFO] message
//	[WARN] message {"key":"value"}
//
// Error, warn and fatal go to EchoErr, everything else to EchoOut. Only the
// fields passed to the call are shown; bound fields stay in the sink. The
// write is synchronous, errors are dropped and panics are recovered.
func (s *Service) echo(level zerolog.Level, fields Fields, msg string, structured bool) {
	if !s.Development() {
		return
	}
	defer func() { _ = recover() }()

	out := s.EchoOut
	if level >= zerolog.WarnLevel {
		out = s.EchoErr
	}
	if out == nil {
		return
	}

	line := "[" + strings.ToUpper(level.String()) + "] " + msg
	if structured {
		line += " " + echoFields(fields)
	}
	_, _ = io.WriteString(out, line+"\n")
}

func echoFields(fields Fields) string {
	if fields == nil {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(fields))
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(fields))
	}
	return string(b)
}
