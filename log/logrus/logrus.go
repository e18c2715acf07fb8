package logrus

import (
	"github.com/oslokit/aside"
	"github.com/sirupsen/logrus"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ aside.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f aside.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f aside.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f aside.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f aside.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
