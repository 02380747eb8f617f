package component

import (
	"github.com/charmbracelet/log"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// LogMode reports which mode the page was built for.
func LogMode(logger *log.Logger, mode core.Mode) {
	switch mode {
	case core.ModeProduction:
		logger.Info("production mode")
	case core.ModeDevelopment:
		logger.Info("development mode")
	}
}
