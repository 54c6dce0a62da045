package storage

import "go.uber.org/zap"

// badgerLogger forwards badger's internal logging to zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func newBadgerLogger(log *zap.SugaredLogger) badgerLogger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return badgerLogger{log.Named("badger")}
}

// Warningf implements badger.Logger; the other methods come from zap.
func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
