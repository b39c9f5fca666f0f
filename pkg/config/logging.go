package config

import (
	"os"

	"github.com/mpapenbr/racecontrol-service-go/log"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// InitLogger creates the logger according to LogFormat, LogLevel and LogFilter
// and installs it as default logger.
func InitLogger() (*log.Logger, error) {
	var logger *log.Logger
	switch LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if LogFilter != "" {
		var err error
		if logger, err = logger.WithFilter(LogFilter); err != nil {
			return nil, err
		}
	}
	log.ResetDefault(logger)
	return logger, nil
}
