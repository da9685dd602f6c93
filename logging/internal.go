package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger(exeName string) *lumberjack.Logger {
	if exeName == emptyString {
		exeName = defaultLogFileName
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(s.logDir(), exeName+".log"),
		MaxBackups: s.LoggingConfig.LogFileMaxBackups,
		MaxAge:     s.LoggingConfig.LogFileMaxAgeDays,
		MaxSize:    s.LoggingConfig.LogFileMaxSizeMB,
		Compress:   s.LoggingConfig.LogFileCompress,
	}
}

// initializeWriters assembles the sink outputs. Stdout carries raw JSON lines;
// the human-readable development output is the echo, not a writer. The fluent
// writer goes last because io.MultiWriter stops at the first failing writer.
func (s *Service) initializeWriters() ([]io.Writer, error) {
	const op errors.Op = "logging.Service.initializeWriters"
	var writers []io.Writer

	// If every output is disabled, enable the file writer
	if !s.LoggingConfig.ConsoleLogging && !s.LoggingConfig.FileLogging &&
		!s.Config.Fluent.Enabled && len(s.Writers) == 0 {
		s.LoggingConfig.FileLogging = true
	}

	if s.LoggingConfig.FileLogging {
		if s.WorkingDir == emptyString {
			return nil, errors.New(op).Msg(errMsgWorkingDir)
		}
		if err := os.MkdirAll(s.logDir(), os.ModePerm); err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgLogDir)
		}
		exeName, err := utils.ExecName(true)
		if err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgExecName)
		}
		s.fileWriter = s.initializeRollingFileLogger(strings.TrimSuffix(exeName, ".test"))
		writers = append(writers, s.fileWriter)
	}
	if s.LoggingConfig.ConsoleLogging {
		writers = append(writers, os.Stdout)
	}
	writers = append(writers, s.Writers...)

	if s.Config.Fluent.Enabled {
		fw, err := newFluentWriter(s.Config.Fluent)
		if err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgFluentClient)
		}
		s.fluentWriter = fw
		writers = append(writers, fw)
	}

	return writers, nil
}
