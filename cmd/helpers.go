package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/qrchat/internal/config"
)

// newLogger returns the stderr logger shared by all commands.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "qrchat",
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig loads the widget config, providing a user-friendly error.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w\nRun `qrchat init` to create a config file", err)
	}
	return cfg, nil
}
