package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	_logger = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

func SetColorPrint(enable bool) {
	_logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     enable,
		DisableColors:   !enable,
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
}

// SetVerbose enables LogDebug output.
func SetVerbose(enable bool) {
	if enable {
		_logger.SetLevel(logrus.DebugLevel)
		return
	}
	_logger.SetLevel(logrus.InfoLevel)
}

func SetOutput(w io.Writer) {
	_logger.SetOutput(w)
}

func LogDebug(format string, v ...interface{}) {
	_logger.Debugf(format, v...)
}

func LogInfo(format string, v ...interface{}) {
	_logger.Infof(format, v...)
}

func LogWarn(format string, v ...interface{}) {
	_logger.Warnf(format, v...)
}

func LogErro(format string, v ...interface{}) {
	_logger.Errorf(format, v...)
}

func LogFatal(format string, v ...interface{}) {
	_logger.Fatalf(format, v...)
}
