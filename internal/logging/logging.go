// Package logging configures logrus for the CLI and adapts it to workflow.Observer.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05"

// Setup points the standard logrus logger at stderr and, when file is set, a
// rotating log file. The returned closer flushes the file.
func Setup(level string, debug bool, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		lvl = logrus.DebugLevel
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})

	if file == "" {
		logger.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, //days
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotating))
	return rotating, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
