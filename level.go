package pinlog

import "github.com/AdityaBavadekar/PinLog/internal/model"

// Level is the severity of a record. ERROR has rank 0 and DEBUG rank 3.
type Level = model.Level

// LogRecord is a stored log line.
type LogRecord = model.LogRecord

const (
	ERROR = model.LevelError
	WARN  = model.LevelWarn
	INFO  = model.LevelInfo
	DEBUG = model.LevelDebug
)

// ParseLevel accepts a level name, short code or rank.
func ParseLevel(s string) (Level, error) {
	return model.ParseLevel(s)
}

// Levels lists every level in rank order.
var Levels = model.Levels
