package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envAppEnv, envNodeEnv, envLogLevel, envLogSilent, envLogConsole, envLogFile,
		envLogDir, envFluentEnabled, envFluentHost, envFluentPort, envFluentTag,
		envHTTPAddr, envGraphQLPath, envMaskedErrors, envLandingPage,
		envAllowedOrigins, envDatabaseURL,
	} {
		t.Setenv(key, "")
	}
	// Load falls back to ./.env; run from an empty directory.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.False(t, cfg.Development())
	assert.True(t, cfg.MaskedErrors())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/api/graphql", cfg.Server.GraphQLEndpoint)
	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Fluent.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envNodeEnv, "development")
	t.Setenv(envLogLevel, "DEBUG")
	t.Setenv(envLogSilent, "true")
	t.Setenv(envLogFile, "1")
	t.Setenv(envLogDir, "var/log")
	t.Setenv(envHTTPAddr, ":9999")
	t.Setenv(envAllowedOrigins, "http://localhost:5173, https://example.com,")
	t.Setenv(envDatabaseURL, "postgres://u:p@localhost:5432/db")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.False(t, cfg.MaskedErrors())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Silent)
	assert.True(t, cfg.Logging.FileLogging)
	assert.Equal(t, "var/log", cfg.Logging.RelLogFileDir)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "https://example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@localhost:5432/db", cfg.DatabaseURL)
}

func TestLoad_AppEnvWinsOverNodeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(envAppEnv, "test")
	t.Setenv(envNodeEnv, "development")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, EnvTest, cfg.Environment)
	assert.False(t, cfg.MaskedErrors())
}

func TestLoad_MaskedErrorsExplicit(t *testing.T) {
	clearEnv(t)
	t.Setenv(envMaskedErrors, "false")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.False(t, cfg.MaskedErrors())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gqlkit.yaml")
	data := []byte(`environment: development
server:
  addr: ":8080"
  graphqlEndpoint: /graphql
  landingPage: true
  maskedErrors: true
fluent:
  enabled: true
  host: fluent-bit
  port: 24225
  tagPrefix: api
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.True(t, cfg.MaskedErrors())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/graphql", cfg.Server.GraphQLEndpoint)
	assert.True(t, cfg.Server.LandingPage)
	assert.True(t, cfg.Fluent.Enabled)
	assert.Equal(t, "fluent-bit", cfg.Fluent.Host)
	assert.Equal(t, 24225, cfg.Fluent.Port)
	assert.Equal(t, "api", cfg.Fluent.TagPrefix)
	// Defaults survive partial files.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRAPHQL_ENDPOINT=/gql\nFLUENT_PORT=1234\n"), 0o644))
	// godotenv.Load does not override variables that are already set, and
	// clearEnv sets them to empty, so drop the two under test.
	require.NoError(t, os.Unsetenv(envGraphQLPath))
	require.NoError(t, os.Unsetenv(envFluentPort))
	t.Cleanup(func() {
		_ = os.Unsetenv(envGraphQLPath)
		_ = os.Unsetenv(envFluentPort)
	})

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "/gql", cfg.Server.GraphQLEndpoint)
	assert.Equal(t, 1234, cfg.Fluent.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing yaml file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgReadFile)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))
		_, err := Load(Options{File: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgParseFile)
	})

	t.Run("missing env file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgEnvFile)
	})

	t.Run("bad bool", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envLogSilent, "sometimes")
		_, err := Load(Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgEnvValue)
	})

	t.Run("bad port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envFluentPort, "http")
		_, err := Load(Options{})
		require.Error(t, err)
	})

	t.Run("unknown environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envAppEnv, "staging")
		_, err := Load(Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgConfigCheck)
	})

	t.Run("fluent enabled without host", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envFluentEnabled, "true")
		_, err := Load(Options{})
		require.Error(t, err)
	})

	t.Run("endpoint must be absolute", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envGraphQLPath, "graphql")
		_, err := Load(Options{})
		require.Error(t, err)
	})
}

func TestValidate_Nil(t *testing.T) {
	require.Error(t, Validate(nil))
}
