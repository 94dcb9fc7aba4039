package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger using the field names our log pipeline expects.
// An unknown level falls back to info.
func New(service, env, level string) *logrus.Entry {
	return newWithOutput(os.Stdout, service, env, level)
}

func newWithOutput(out io.Writer, service, env, level string) *logrus.Entry {
	log := logrus.New()
	log.Out = out
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.Level = parsed

	return log.WithFields(logrus.Fields{
		"service": service,
		"env":     env,
	})
}
