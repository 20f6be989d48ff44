package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger creates a zap logger. "debug" selects the development encoder,
// anything else the JSON production one. Unknown levels fall back to info.
func NewLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))

	var config zap.Config
	if level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomic = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.Level = atomic

	return config.Build()
}
