package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// Logger is the process-wide logger. It is usable before Init with
	// logrus defaults.
	Logger = logrus.New()
)

// Init configures the global logger. An empty level falls back to the
// LOG_LEVEL environment variable, then to info.
func Init(level string) {
	InitWithOutput(level, os.Stderr)
}

// InitWithOutput is Init writing to the given writer.
func InitWithOutput(level string, out io.Writer) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	var lvl logrus.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = logrus.DebugLevel
	case "info":
		lvl = logrus.InfoLevel
	case "warn", "warning":
		lvl = logrus.WarnLevel
	case "error":
		lvl = logrus.ErrorLevel
	default:
		lvl = logrus.InfoLevel
	}

	Logger.SetOutput(out)
	Logger.SetLevel(lvl)
	Logger.SetFormatter(&logrus.JSONFormatter{})

	Logger.WithField("level", level).Debug("logger initialized")
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func Debug(msg string, args ...any) {
	Logger.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	Logger.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	Logger.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	Logger.WithFields(fields(args)).Error(msg)
}

// fields turns alternating key/value arguments into logrus fields. A trailing
// key without value is kept under "!BADKEY".
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		if i+1 < len(args) {
			f[key] = args[i+1]
		} else {
			f["!BADKEY"] = args[i]
		}
	}
	return f
}
