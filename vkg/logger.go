package vkg

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var loggerPtr atomic.Pointer[logrus.Logger]

func init() {
	loggerPtr.Store(logrus.StandardLogger())
}

// SetLogger replaces the logger used for validation layer output and
// resource diagnostics. Passing nil restores the logrus standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger currently in use by the package
func Logger() *logrus.Logger {
	return loggerPtr.Load()
}
