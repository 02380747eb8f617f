package env

import (
	"os"

	"github.com/3-lines-studio/pagepack/internal/core"
)

const (
	ModeVar     = "PAGEPACK_MODE"
	LogLevelVar = "PAGEPACK_LOG_LEVEL"
)

// DetectMode reads the default build mode from PAGEPACK_MODE.
func DetectMode() (core.Mode, error) {
	return core.ParseMode(os.Getenv(ModeVar))
}

func LogLevel() string {
	if level := os.Getenv(LogLevelVar); level != "" {
		return level
	}
	return "info"
}
