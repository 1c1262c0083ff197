package dbmigrate

import "github.com/ljpx/logging"

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

func loggerOrDiscard(logger logging.Logger) logging.Logger {
	if logger == nil {
		return discardLogger{}
	}

	return logger
}
