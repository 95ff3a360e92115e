package pinlog

import (
	"fmt"
	"time"
)

// DateLayout renders timestamps inside formatted records.
const DateLayout = "Mon Jan 02 15:04:05 MST 2006"

// Entry is everything a Formatter may draw on for one record.
type Entry struct {
	Tag         string
	Message     string
	Cause       error
	Time        time.Time
	Level       Level
	VersionName string
	VersionCode string
	PackageName string
}

// Formatter renders an Entry into the text that is stored, exported and
// passed to string listeners. Implementations must be safe for concurrent use.
type Formatter interface {
	Format(e Entry) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(e Entry) string

func (f FormatterFunc) Format(e Entry) string { return f(e) }

// DefaultFormatter produces lines such as
//
//	Vr/[1.2.0] Mon Jan 02 15:04:05 UTC 2006/ W/Net : timeout
//
// followed by the cause's stack trace on the next line when there is one.
type DefaultFormatter struct{}

func (DefaultFormatter) Format(e Entry) string {
	s := fmt.Sprintf("Vr/[%s] %s/ %s/%s : %s",
		e.VersionName, e.Time.Format(DateLayout), e.Level.Short(), e.Tag, e.Message)
	if e.Cause != nil {
		s += "\n" + StackTrace(e.Cause)
	}
	return s
}

// StackTrace renders err with as much detail as it carries. Errors created
// with github.com/pkg/errors include their stack.
func StackTrace(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}

// formatterBox gives atomic.Pointer a concrete type to hold.
type formatterBox struct {
	f Formatter
}
