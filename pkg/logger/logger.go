package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured Logrus logger: readable text in development,
// JSON everywhere else.
func New(appName, env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		if env == "development" {
			lvl = logrus.DebugLevel
		}
	}
	log.SetLevel(lvl)

	log.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return log
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
