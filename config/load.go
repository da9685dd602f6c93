package config

import (
	stderrs "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envAppEnv         = "APP_ENV"
	envNodeEnv        = "NODE_ENV"
	envLogLevel       = "LOG_LEVEL"
	envLogSilent      = "LOG_SILENT"
	envLogConsole     = "LOG_CONSOLE"
	envLogFile        = "LOG_FILE"
	envLogDir         = "LOG_DIR"
	envFluentEnabled  = "FLUENT_ENABLED"
	envFluentHost     = "FLUENT_HOST"
	envFluentPort     = "FLUENT_PORT"
	envFluentTag      = "FLUENT_TAG_PREFIX"
	envHTTPAddr       = "HTTP_ADDR"
	envGraphQLPath    = "GRAPHQL_ENDPOINT"
	envMaskedErrors   = "GRAPHQL_MASKED_ERRORS"
	envLandingPage    = "GRAPHQL_LANDING_PAGE"
	envAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	envDatabaseURL    = "DATABASE_URL"
)

const (
	errMsgReadFile    = "Could not read configuration file."
	errMsgParseFile   = "Could not parse configuration file."
	errMsgEnvFile     = "Could not load env file."
	errMsgEnvValue    = "Environment variable has an invalid value."
	errMsgConfigCheck = "Configuration is invalid."
)

// Options controls where Load looks for configuration.
type Options struct {
	// File is an optional YAML file applied on top of the defaults.
	File string
	// EnvFile is an optional dotenv file. When empty, ./.env is loaded if present.
	EnvFile string
}

var validate *validator.Validate
var once sync.Once

// Load builds a Config from defaults, an optional YAML file, an optional
// dotenv file and finally the process environment, in that order of
// precedence (environment wins). The result is validated before it is returned.
func Load(opts Options) (*Config, error) {
	const op errors.Op = "config.Load"

	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgReadFile)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgParseFile)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgEnvFile)
		}
	} else if err := godotenv.Load(); err != nil && !stderrs.Is(err, fs.ErrNotExist) {
		return nil, errors.New(op).Err(err).Msg(errMsgEnvFile)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgEnvValue)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of cfg. The logging section is validated by
// the logging service itself.
func Validate(cfg *Config) error {
	const op errors.Op = "config.Validate"
	if cfg == nil {
		return errors.New(op).Msg(errMsgConfigCheck)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.StructExcept(cfg, "Logging"); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigCheck)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup(envAppEnv); ok {
		cfg.Environment = strings.ToLower(v)
	} else if v, ok = lookup(envNodeEnv); ok {
		cfg.Environment = strings.ToLower(v)
	}

	if v, ok := lookup(envLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(envLogDir); ok {
		cfg.Logging.RelLogFileDir = v
	}
	if v, ok := lookup(envFluentHost); ok {
		cfg.Fluent.Host = v
	}
	if v, ok := lookup(envFluentTag); ok {
		cfg.Fluent.TagPrefix = v
	}
	if v, ok := lookup(envHTTPAddr); ok {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(envGraphQLPath); ok {
		cfg.Server.GraphQLEndpoint = v
	}
	if v, ok := lookup(envDatabaseURL); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := lookup(envAllowedOrigins); ok {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	if err := envBool(envLogSilent, &cfg.Silent); err != nil {
		return err
	}
	if err := envBool(envLogConsole, &cfg.Logging.ConsoleLogging); err != nil {
		return err
	}
	if err := envBool(envLogFile, &cfg.Logging.FileLogging); err != nil {
		return err
	}
	if err := envBool(envFluentEnabled, &cfg.Fluent.Enabled); err != nil {
		return err
	}
	if err := envBool(envLandingPage, &cfg.Server.LandingPage); err != nil {
		return err
	}
	if _, ok := lookup(envMaskedErrors); ok {
		var masked bool
		if err := envBool(envMaskedErrors, &masked); err != nil {
			return err
		}
		cfg.Server.MaskedErrors = &masked
	}
	if v, ok := lookup(envFluentPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(envFluentPort, err)
		}
		cfg.Fluent.Port = port
	}

	return nil
}

// lookup treats empty values as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return envError(key, err)
	}
	*dst = b
	return nil
}

func envError(key string, err error) error {
	return errors.New(errors.Op("config.applyEnv")).Errorf("%s: %w", key, err)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
