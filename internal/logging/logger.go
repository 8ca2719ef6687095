// Package logging builds the leveled logrus logger shared by the CLI, the
// generation pipeline and the HTTP server.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParseLevel maps a level name to a logrus level.
// Unknown values default to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger creates a logger writing to w. format is "json" or "text".
func NewLogger(level, format string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(ParseLevel(level))

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	return log
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
