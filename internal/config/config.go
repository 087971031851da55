package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"irc-client/internal/logger"
)

const (
	AppName    = "Irc Client"
	AppID      = "se.tingping.IrcClient"
	AppVersion = "0.1.0"
)

type Config struct {
	LogLevel       logger.LogLevel
	UseJSONLogging bool
	Language       string
	SingleInstance bool
	RuntimeDir     string
}

func DefaultConfig() Config {
	return Config{
		LogLevel:       logger.InfoLevel,
		UseJSONLogging: false,
		Language:       "en",
		SingleInstance: true,
		RuntimeDir:     userRuntimeDir(),
	}
}

// userRuntimeDir is the fallback when XDG_RUNTIME_DIR is unset. It is
// private to the user so each user gets their own registration.
func userRuntimeDir() string {
	return filepath.Join(os.TempDir(), "irc-client-"+strconv.Itoa(os.Getuid()))
}

// FromEnv reads the IRC_CLIENT_* environment on top of DefaultConfig.
func FromEnv() Config {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) Config {
	config := DefaultConfig()

	if v, ok := lookup("IRC_CLIENT_LOG_LEVEL"); ok {
		config.LogLevel = logger.ParseLevel(v)
	}
	if v, ok := lookup("IRC_CLIENT_DEBUG"); ok && v == "1" {
		config.LogLevel = logger.DebugLevel
	}

	if v, ok := lookup("IRC_CLIENT_JSON_LOGS"); ok {
		config.UseJSONLogging = isTrue(v)
	}

	if v, ok := lookup("IRC_CLIENT_LANG"); ok && v != "" {
		config.Language = v
	} else if v, ok := lookup("LANG"); ok {
		if tag := languageFromPOSIX(v); tag != "" {
			config.Language = tag
		}
	}

	if v, ok := lookup("IRC_CLIENT_SINGLE_INSTANCE"); ok {
		config.SingleInstance = isTrue(v)
	}

	if v, ok := lookup("IRC_CLIENT_RUNTIME_DIR"); ok && v != "" {
		config.RuntimeDir = v
	} else if v, ok := lookup("XDG_RUNTIME_DIR"); ok && v != "" {
		config.RuntimeDir = v
	}

	return config
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// languageFromPOSIX turns "sv_SE.UTF-8" into "sv-SE". C and POSIX yield "".
func languageFromPOSIX(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}
