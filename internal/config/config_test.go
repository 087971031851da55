package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"irc-client/internal/logger"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	config := fromLookup(lookupFrom(nil))

	assert.Equal(t, DefaultConfig(), config)
	assert.True(t, config.SingleInstance)
	assert.Equal(t, "en", config.Language)
}

func TestFromEnv_Overrides(t *testing.T) {
	config := fromLookup(lookupFrom(map[string]string{
		"IRC_CLIENT_LOG_LEVEL":       "warn",
		"IRC_CLIENT_JSON_LOGS":       "true",
		"IRC_CLIENT_LANG":            "sv",
		"IRC_CLIENT_SINGLE_INSTANCE": "false",
		"IRC_CLIENT_RUNTIME_DIR":     "/run/user/1000/irc",
		"XDG_RUNTIME_DIR":            "/run/user/1000",
	}))

	assert.Equal(t, logger.WarnLevel, config.LogLevel)
	assert.True(t, config.UseJSONLogging)
	assert.Equal(t, "sv", config.Language)
	assert.False(t, config.SingleInstance)
	assert.Equal(t, "/run/user/1000/irc", config.RuntimeDir)
}

func TestFromEnv_DebugForcesLevel(t *testing.T) {
	config := fromLookup(lookupFrom(map[string]string{
		"IRC_CLIENT_LOG_LEVEL": "error",
		"IRC_CLIENT_DEBUG":     "1",
	}))

	assert.Equal(t, logger.DebugLevel, config.LogLevel)
}

func TestFromEnv_Fallbacks(t *testing.T) {
	config := fromLookup(lookupFrom(map[string]string{
		"LANG":            "de_DE.UTF-8",
		"XDG_RUNTIME_DIR": "/run/user/1000",
	}))

	assert.Equal(t, "de-DE", config.Language)
	assert.Equal(t, "/run/user/1000", config.RuntimeDir)
}

func TestLanguageFromPOSIX(t *testing.T) {
	assert.Equal(t, "sv-SE", languageFromPOSIX("sv_SE.UTF-8"))
	assert.Equal(t, "en", languageFromPOSIX("en"))
	assert.Equal(t, "ca-ES", languageFromPOSIX("ca_ES@valencia"))
	assert.Equal(t, "", languageFromPOSIX("C"))
	assert.Equal(t, "", languageFromPOSIX("POSIX.UTF-8"))
	assert.Equal(t, "", languageFromPOSIX(""))
}

func TestDefaultConfig_PerUserRuntimeDir(t *testing.T) {
	dir := DefaultConfig().RuntimeDir

	assert.Equal(t, os.TempDir(), filepath.Dir(dir))
	assert.Equal(t, "irc-client-"+strconv.Itoa(os.Getuid()), filepath.Base(dir))
}
