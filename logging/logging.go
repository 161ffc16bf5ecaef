package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

const (
	// TextFormat renders log lines as key=value text
	TextFormat = "text"
	// JSONFormat renders log lines as JSON objects
	JSONFormat = "json"
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// ParseLevel translates a level name (case-insensitive) to a log level enum
func ParseLevel(name string) (int, error) {
	for level := TraceLevel; level <= FatalLevel; level++ {
		if strings.EqualFold(name, LogLevelToString(level)) {
			return level, nil
		}
	}
	if strings.EqualFold(name, "warning") {
		return WarnLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// ToLogrus translates a log level enum to the equivalent logrus level
func ToLogrus(level int) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.TraceLevel
	}
}

// New creates a logger writing to out (stderr when nil) at the given level and format
func New(level int, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(ToLogrus(level))
	switch strings.ToLower(format) {
	case "", TextFormat:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case JSONFormat:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q, expected %s or %s", format, TextFormat, JSONFormat)
	}
	return logger, nil
}
