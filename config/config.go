package config

import (
	"time"

	"github.com/Station-Manager/types"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the process-wide configuration shared by the logging sink, the
// GraphQL route and the user store.
type Config struct {
	Environment string              `yaml:"environment" validate:"required,oneof=development production test"`
	Silent      bool                `yaml:"silent"`
	Logging     types.LoggingConfig `yaml:"logging"`
	Fluent      FluentConfig        `yaml:"fluent"`
	Server      ServerConfig        `yaml:"server"`
	DatabaseURL string              `yaml:"databaseUrl"`
}

// FluentConfig configures forwarding of structured records to Fluent Bit / fluentd.
type FluentConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host" validate:"required_if=Enabled true"`
	Port      int    `yaml:"port" validate:"min=0,max=65535"`
	TagPrefix string `yaml:"tagPrefix" validate:"required_if=Enabled true"`
	Async     bool   `yaml:"async"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	GraphQLEndpoint string        `yaml:"graphqlEndpoint" validate:"required,startswith=/"`
	MaskedErrors    *bool         `yaml:"maskedErrors"`
	LandingPage     bool          `yaml:"landingPage"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"min=0"`
}

// Development reports whether the console echo should be enabled.
func (c *Config) Development() bool {
	return c != nil && c.Environment == EnvDevelopment
}

// MaskedErrors reports whether GraphQL error messages are hidden from clients.
// Unless set explicitly, errors are masked in production only.
func (c *Config) MaskedErrors() bool {
	if c == nil {
		return true
	}
	if c.Server.MaskedErrors != nil {
		return *c.Server.MaskedErrors
	}
	return c.Environment == EnvProduction
}

// Default returns the configuration used before any file or environment
// overrides are applied.
func Default() Config {
	return Config{
		Environment: EnvProduction,
		Logging: types.LoggingConfig{
			Level:                  "info",
			SkipFrameCount:         0,
			WithTimestamp:          true,
			ConsoleLogging:         true,
			FileLogging:            false,
			RelLogFileDir:          "logs",
			LogFileMaxBackups:      3,
			LogFileMaxAgeDays:      7,
			LogFileMaxSizeMB:       10,
			ShutdownTimeoutMS:      500,
			ShutdownTimeoutWarning: true,
			ConsoleNoColor:         true,
		},
		Fluent: FluentConfig{
			Port:      24224,
			TagPrefix: "gqlkit",
		},
		Server: ServerConfig{
			Addr:            ":4000",
			GraphQLEndpoint: "/api/graphql",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
