package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/config"
	"github.com/Station-Manager/types"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MessageKey is the field the log message is written under. It is kept apart
// from FieldMessage so LogError records can carry both.
const MessageKey = "msg"

// Service is the process-wide sink shared by every Logger derived from it.
// It is created once at start-up, initialized, and injected into consumers
// through Logger().
type Service struct {
	WorkingDir    string
	Config        *config.Config
	LoggingConfig *types.LoggingConfig

	// Writers receive every record in addition to the configured outputs.
	Writers []io.Writer
	// EchoOut and EchoErr receive the development console echo.
	// They default to os.Stdout and os.Stderr.
	EchoOut io.Writer
	EchoErr io.Writer

	logger        atomic.Pointer[zerolog.Logger]
	isInitialized atomic.Bool
	development   atomic.Bool
	silent        atomic.Bool
	levelName     atomic.String
	activeOps     atomic.Int32

	wg sync.WaitGroup
	mu sync.RWMutex

	fileWriter   *lumberjack.Logger
	fluentWriter *fluentWriter
}

// Initialize builds the zerolog sink from the injected configuration.
// Calling it on an initialized Service is a no-op.
func (s *Service) Initialize() error {
	const op errors.Op = "logging.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.Config == nil {
		return errors.New(op).Msg(errMsgAppCfgNotSet)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isInitialized.Load() {
		return nil
	}

	cfg, err := validateConfig(s.Config)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	s.LoggingConfig = &cfg

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	writers, err := s.initializeWriters()
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	logger := zerolog.New(zerolog.SyncWriter(io.MultiWriter(writers...))).Level(level)
	if cfg.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	if cfg.SkipFrameCount > 0 {
		logger = logger.With().CallerWithSkipFrameCount(cfg.SkipFrameCount).Logger()
	}

	if s.EchoOut == nil {
		s.EchoOut = os.Stdout
	}
	if s.EchoErr == nil {
		s.EchoErr = os.Stderr
	}

	s.levelName.Store(level.String())
	s.development.Store(s.Config.Development())
	s.silent.Store(s.Config.Silent)
	s.logger.Store(&logger)
	s.isInitialized.Store(true)
	return nil
}

// Close waits for in-flight records (bounded by ShutdownTimeoutMS) and
// releases the file and fluent writers. It's safe to call Close multiple times.
func (s *Service) Close() error {
	const op errors.Op = "logging.Service.Close"
	if s == nil || !s.isInitialized.Load() {
		return nil
	}

	// Stop new records first so the wait below can only shrink.
	s.mu.Lock()
	if !s.isInitialized.Load() {
		s.mu.Unlock()
		return nil
	}
	s.isInitialized.Store(false)
	s.mu.Unlock()

	timeout := 100 * time.Millisecond
	if s.LoggingConfig != nil && s.LoggingConfig.ShutdownTimeoutMS > 0 {
		timeout = time.Duration(s.LoggingConfig.ShutdownTimeoutMS) * time.Millisecond
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		if s.LoggingConfig != nil && s.LoggingConfig.ShutdownTimeoutWarning {
			if logger := s.logger.Load(); logger != nil {
				logger.Warn().
					Int32("active_operations", s.activeOps.Load()).
					Dur("timeout", timeout).
					Str(MessageKey, errMsgShutdownTimeout).
					Send()
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Store(nil)

	var firstErr error
	if s.fileWriter != nil {
		if err := s.fileWriter.Close(); err != nil {
			firstErr = errors.New(op).Err(err).Msg("closing log file")
		}
		s.fileWriter = nil
	}
	if s.fluentWriter != nil {
		if err := s.fluentWriter.Close(); err != nil && firstErr == nil {
			firstErr = errors.New(op).Err(err).Msg("closing fluent client")
		}
		s.fluentWriter = nil
	}
	return firstErr
}

// Logger returns the root logger: no bound fields, this Service as sink.
func (s *Service) Logger() *Logger {
	return newLogger(s, nil)
}

// Level returns the configured minimum level name, e.g. "info".
func (s *Service) Level() string {
	if s == nil {
		return zerolog.Disabled.String()
	}
	if name := s.levelName.Load(); name != emptyString {
		return name
	}
	return zerolog.Disabled.String()
}

// Silent reports whether every record is discarded.
func (s *Service) Silent() bool {
	return s == nil || s.silent.Load()
}

// Development reports whether the console echo is active.
func (s *Service) Development() bool {
	return s != nil && s.development.Load()
}

// Hook installs zerolog hooks on the sink, e.g. to count records by level.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	if s == nil || !s.isInitialized.Load() {
		return
	}

	// Compare-and-swap loop for thread-safe hook installation
	for {
		oldLogger := s.logger.Load()
		if oldLogger == nil {
			return
		}
		newLogger := oldLogger.Hook(hooks...)
		if s.logger.CompareAndSwap(oldLogger, &newLogger) {
			return
		}
	}
}

// enabled reports whether a record at level would reach the sink.
func (s *Service) enabled(level zerolog.Level) bool {
	if s == nil || !s.isInitialized.Load() || s.silent.Load() {
		return false
	}
	logger := s.logger.Load()
	if logger == nil {
		return false
	}
	return level >= logger.GetLevel() && level >= zerolog.GlobalLevel()
}

// write emits one record. The event is tracked so Close can wait for it.
func (s *Service) write(level zerolog.Level, fields Fields, msg string) {
	event, done := s.event(level)
	if event == nil {
		return
	}
	defer done()

	if len(fields) > 0 {
		event.Fields(map[string]any(fields))
	}
	if msg != emptyString {
		event.Str(MessageKey, msg)
	}
	event.Send()
}

// event creates a zerolog event for level, or returns nil if the level is
// disabled or the Service is closing. The returned func must be called once
// the event has been sent.
func (s *Service) event(level zerolog.Level) (*zerolog.Event, func()) {
	if s == nil || !s.isInitialized.Load() {
		return nil, nil
	}

	s.activeOps.Add(1)
	s.wg.Add(1)
	release := func() {
		s.activeOps.Add(-1)
		s.wg.Done()
	}

	// Read lock keeps Close from swapping the logger out under us.
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isInitialized.Load() {
		release()
		return nil, nil
	}
	logger := s.logger.Load()
	if logger == nil {
		release()
		return nil, nil
	}

	// WithLevel never exits or panics, even for fatal.
	event := logger.WithLevel(level)
	if event == nil {
		release()
		return nil, nil
	}
	return event, release
}

// logDir returns the absolute directory log files are written to.
func (s *Service) logDir() string {
	return filepath.Join(s.WorkingDir, s.LoggingConfig.RelLogFileDir)
}
