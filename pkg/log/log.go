package log

import "github.com/sirupsen/logrus"

var loggerInstance *logrus.Logger

func ConfigLogger(logLevel logrus.Level) {
	loggerInstance = logrus.New()
	loggerInstance.SetLevel(logLevel)
}

func Log() *logrus.Logger {
	if loggerInstance == nil {
		ConfigLogger(logrus.InfoLevel)
	}
	return loggerInstance
}
