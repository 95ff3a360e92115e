package model

import (
	"fmt"
	"strings"
)

// Level is the severity of a log record. Lower rank means more severe.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Levels lists every level in rank order.
var Levels = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}

// Rank returns the numeric rank stored alongside each record.
func (l Level) Rank() int { return int(l) }

// Short returns the single-letter code used in formatted lines.
func (l Level) Short() string {
	switch l {
	case LevelError:
		return "E"
	case LevelWarn:
		return "W"
	case LevelInfo:
		return "I"
	case LevelDebug:
		return "D"
	default:
		return "?"
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelDebug
}

// LevelFromRank maps a stored rank back to a Level. Unknown ranks map to DEBUG.
func LevelFromRank(rank int) Level {
	l := Level(rank)
	if !l.Valid() {
		return LevelDebug
	}
	return l
}

// ParseLevel accepts a level name, its short code or its rank.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR", "E", "0":
		return LevelError, nil
	case "WARN", "WARNING", "W", "1":
		return LevelWarn, nil
	case "INFO", "I", "2":
		return LevelInfo, nil
	case "DEBUG", "D", "3":
		return LevelDebug, nil
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// LogRecord is a single captured log line as kept by the store.
type LogRecord struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Level     Level  `json:"level"`
	Tag       string `json:"tag"`
	CreatedAt int64  `json:"created_at"` // epoch millis
}

// Accessors used by the query evaluator.

func (r *LogRecord) GetID() int64       { return r.ID }
func (r *LogRecord) GetCreated() int64  { return r.CreatedAt }
func (r *LogRecord) GetLevel() string   { return r.Level.String() }
func (r *LogRecord) GetTag() string     { return r.Tag }
func (r *LogRecord) GetMessage() string { return r.Message }
