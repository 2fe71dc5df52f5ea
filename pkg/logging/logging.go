package logging

import (
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps a successful run silent.
const DefaultLevel = "warn"

// New returns a text logger writing to out at the named level. An empty level
// selects DefaultLevel.
func New(out io.Writer, level string) (*logrus.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
