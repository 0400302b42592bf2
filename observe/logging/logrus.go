package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	l logrus.FieldLogger
}

// NewLogrus adapts a logrus logger to Logger. Key/value args become fields.
func NewLogrus(l logrus.FieldLogger) Logger {
	return logrusLogger{l: l}
}

func (l logrusLogger) Debug(msg string, args ...any) { l.l.WithFields(fields(args)).Debug(msg) }
func (l logrusLogger) Info(msg string, args ...any)  { l.l.WithFields(fields(args)).Info(msg) }
func (l logrusLogger) Warn(msg string, args ...any)  { l.l.WithFields(fields(args)).Warn(msg) }
func (l logrusLogger) Error(msg string, args ...any) { l.l.WithFields(fields(args)).Error(msg) }

// fields pairs up args the way slog does; a dangling value is kept under
// "!BADKEY".
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}
