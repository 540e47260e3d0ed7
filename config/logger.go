package config

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var onceLogger sync.Once

// InitLogger configures the process-wide logrus logger. JSON output in
// production, colored text during development.
func InitLogger() *logrus.Logger {
	onceLogger.Do(func() {
		log := logrus.StandardLogger()

		if level, err := logrus.ParseLevel(strings.ToLower(Env().LogLevel)); err == nil {
			log.SetLevel(level)
		} else {
			log.SetLevel(logrus.InfoLevel)
			log.WithField("invalid_level", Env().LogLevel).Warn("Invalid LOG_LEVEL, using INFO")
		}

		if IsProduction() {
			log.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			})
		} else {
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
				ForceColors:     true,
			})
		}
		log.SetOutput(os.Stdout)
	})
	return logrus.StandardLogger()
}
