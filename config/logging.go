package config

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

func parseLevel(s string) (logrus.Level, error) {
	if strings.EqualFold(s, "critical") {
		return logrus.ErrorLevel, nil
	}
	return logrus.ParseLevel(s)
}

// NewLogger builds a logger from the logging section. The returned closer
// releases the log file, if one was opened.
func NewLogger(l Logging) (*logrus.Logger, io.Closer, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, nil, err
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "02-Jan-06 15:04:05",
	})

	var closer io.Closer = nopCloser{}
	if l.Type == "file" {
		f, err := os.OpenFile(l.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		log.SetOutput(f)
		closer = f
	} else {
		log.SetOutput(os.Stderr)
	}
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
