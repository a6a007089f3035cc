package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured for operator-facing CLI diagnostics:
// plain text, no timestamps, written to the command's error stream.
func New(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return logger
}
