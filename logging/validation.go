package logging

import (
	"path/filepath"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/config"
	"github.com/Station-Manager/types"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validateConfig checks everything the sink reads from cfg and returns the
// logging section as a copy the Service owns.
func validateConfig(cfg *config.Config) (types.LoggingConfig, error) {
	const op errors.Op = "logging.validateConfig"
	if cfg == nil {
		return types.LoggingConfig{}, errors.New(op).Msg(errMsgNilConfig)
	}

	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	logCfg := cfg.Logging
	if err := validate.Struct(&logCfg); err != nil {
		return types.LoggingConfig{}, errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	// Log files must stay under WorkingDir.
	if logCfg.RelLogFileDir != emptyString && !filepath.IsLocal(logCfg.RelLogFileDir) {
		return types.LoggingConfig{}, errors.New(op).Msg(errMsgLogDirNotLocal)
	}
	if cfg.Fluent.Enabled {
		if err := validate.Struct(cfg.Fluent); err != nil {
			return types.LoggingConfig{}, errors.New(op).Err(err).Msg(errMsgFluentInvalid)
		}
	}

	return logCfg, nil
}
