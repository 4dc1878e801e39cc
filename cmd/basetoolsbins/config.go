package main

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/installdir"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/logging"
)

const (
	envLogLevel   = "BASETOOLSBINS_LOG_LEVEL"
	envLogFile    = "BASETOOLSBINS_LOG_FILE"
	envInstallDir = "BASETOOLSBINS_INSTALL_DIR"
	envNoLock     = "BASETOOLSBINS_NO_LOCK"
)

// runConfig is the environment-derived configuration of one invocation.
type runConfig struct {
	LogLevel    string
	LogFile     string
	InstallDir  *installdir.Dir
	DisableLock bool
}

// loadConfig reads the BASETOOLSBINS_* variables through getenv.
func loadConfig(getenv func(string) string) runConfig {
	cfg := runConfig{
		LogLevel: logging.DefaultLevel,
		LogFile:  strings.TrimSpace(getenv(envLogFile)),
	}

	if level := strings.TrimSpace(getenv(envLogLevel)); level != "" {
		cfg.LogLevel = level
	}

	if dir, ok := installdir.FromEnv(getenv(envInstallDir)); ok {
		cfg.InstallDir = &dir
	}

	switch strings.ToLower(strings.TrimSpace(getenv(envNoLock))) {
	case "1", "true", "yes":
		cfg.DisableLock = true
	}

	return cfg
}
