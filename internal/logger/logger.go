// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init sets level and format on the global logger and sends it to w
// (stderr when w is nil). Report tables go to stdout, so diagnostics stay
// out of their way.
func Init(level, format string, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// The formatter is set first so the warning below uses this call's format.
	if lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("Invalid log level, using INFO")
	}
	return log
}

// Get returns the global logger.
func Get() *logrus.Logger { return log }

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return log.WithField("component", name)
}
