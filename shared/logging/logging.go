package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const (
	format = "2006-01-02 15:04:05"
)

// Fields tags a log line with structured key/value pairs.
type Fields = logrus.Fields

var std = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&formatter{})

	return l
}

// formatter prints "<time> <LEVEL> <msg> k=v ..." with the level colored.
type formatter struct{}

func (f *formatter) Format(e *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	fmt.Fprintf(b, "%s %s %s", e.Time.Format(format), paint(e.Level), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

func paint(l logrus.Level) string {
	switch l {
	case logrus.TraceLevel:
		return color.CyanString("TRACE")
	case logrus.DebugLevel:
		return color.GreenString("DEBUG")
	case logrus.InfoLevel:
		return color.WhiteString("INFO")
	case logrus.WarnLevel:
		return color.BlueString("WARN")
	default:
		return color.RedString(strings.ToUpper(l.String()))
	}
}

// SetLevel parses names like "debug" or "warning".
func SetLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", level, err)
	}

	std.SetLevel(l)

	return nil
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// WithFields returns an entry that carries fields on every line it logs.
func WithFields(fields Fields) *logrus.Entry {
	return std.WithFields(fields)
}

func Trace(msg string) {
	std.Trace(msg)
}

func Tracef(msg string, args ...interface{}) {
	std.Tracef(msg, args...)
}

func Debug(msg string) {
	std.Debug(msg)
}

func Debugf(msg string, args ...interface{}) {
	std.Debugf(msg, args...)
}

func Info(msg string) {
	std.Info(msg)
}

func Infof(msg string, args ...interface{}) {
	std.Infof(msg, args...)
}

func Warning(msg string) {
	std.Warn(msg)
}

func Warningf(msg string, args ...interface{}) {
	std.Warnf(msg, args...)
}

func Error(msg string) {
	std.Error(msg)
}

func Errorf(msg string, args ...interface{}) {
	std.Errorf(msg, args...)
}

// Fatalf logs at error level and exits the process with status 1.
func Fatalf(msg string, args ...interface{}) {
	std.Fatalf(msg, args...)
}
