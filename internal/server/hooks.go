package server

import (
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// levelCounter counts warn and error records so shutdown can report them.
type levelCounter struct {
	warnings atomic.Int64
	errors   atomic.Int64
}

func (c *levelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	switch {
	case level == zerolog.WarnLevel:
		c.warnings.Inc()
	case level >= zerolog.ErrorLevel && level <= zerolog.FatalLevel:
		c.errors.Inc()
	}
}

func (c *levelCounter) fields() logging.Fields {
	return logging.Fields{
		"warn_records":  c.warnings.Load(),
		"error_records": c.errors.Load(),
	}
}
